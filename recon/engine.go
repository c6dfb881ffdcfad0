package recon

import (
	"go.uber.org/zap"

	"github.com/teranos/doctor/logger"
)

// Rules holds the configurable parts of the covering rules.
type Rules struct {
	// IterableMarkers are declared types that, like array, accept a documented "[]" type.
	IterableMarkers []Token
}

// DefaultRules returns the rules used when none are configured.
func DefaultRules() Rules {
	return Rules{IterableMarkers: []Token{"Generator"}}
}

// Engine reconciles declarations against a Registry. It holds no per-declaration state
// and is safe for concurrent use.
type Engine struct {
	registry Registry
	rules    Rules
	label    string
	logger   *zap.SugaredLogger
}

// Option configures an Engine.
type Option func(*Engine)

// WithRules replaces the default rules.
func WithRules(rules Rules) Option {
	return func(e *Engine) {
		e.rules = rules
	}
}

// WithLabel sets the documentation source named in messages ("annotation", "phpdoc").
func WithLabel(label string) Option {
	return func(e *Engine) {
		if label != "" {
			e.label = label
		}
	}
}

// WithLogger enables debug logging of uncovered tokens.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// NewEngine creates an engine. A nil registry behaves like NopRegistry.
func NewEngine(registry Registry, opts ...Option) *Engine {
	if registry == nil {
		registry = NopRegistry{}
	}
	e := &Engine{
		registry: registry,
		rules:    DefaultRules(),
		label:    DefaultLabel,
		logger:   zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Label returns the documentation source named in messages.
func (e *Engine) Label() string {
	return e.label
}

// Reconcile checks d and returns acc with d's messages appended. acc is not modified.
func (e *Engine) Reconcile(acc Diagnostics, d Declaration) Diagnostics {
	findings := e.Findings(d)
	if len(findings) == 0 {
		return acc
	}

	msgs := make([]string, len(findings))
	for i, f := range findings {
		msgs[i] = f.Message(e.label)
	}
	return acc.Append(d.File, msgs...)
}

// Findings returns the uncovered tokens of d: Missing ones first, then Wrong ones.
// Nothing is reported unless both the declared and the documented type are present.
func (e *Engine) Findings(d Declaration) []Diagnostic {
	sets := BuildTypeSets(d)
	if !sets.Comparable() {
		return nil
	}

	var out []Diagnostic
	for _, tok := range sets.Declared {
		if sets.Annotated.Contains(tok) || e.declaredCovered(tok, sets) {
			continue
		}
		e.logger.Debugw("Declared type missing from documentation",
			logger.FieldName, d.Name,
			logger.FieldToken, tok,
			logger.FieldDocumented, sets.Annotated.String(),
		)
		out = append(out, Diagnostic{Kind: Missing, Token: tok, Declaration: d})
	}

	for _, tok := range sets.Annotated {
		if sets.Declared.Contains(tok) || !needsJustification(tok, sets.Primary) {
			continue
		}
		if e.annotatedCovered(tok, sets) {
			continue
		}
		e.logger.Debugw("Documented type not backed by declaration",
			logger.FieldName, d.Name,
			logger.FieldToken, tok,
			logger.FieldPrimary, sets.Primary,
		)
		out = append(out, Diagnostic{Kind: Wrong, Token: tok, Declaration: d})
	}
	return out
}

// Reconcile is Engine.Reconcile with default rules and label.
func Reconcile(registry Registry, acc Diagnostics, d Declaration) Diagnostics {
	return NewEngine(registry).Reconcile(acc, d)
}
