package recon

import "strings"

// declaredCovered decides whether declared token tok, absent verbatim from the
// documented set, is still covered by it.
func (e *Engine) declaredCovered(tok Token, sets TypeSets) bool {
	// int[], Foo[] and friends refine array.
	if tok == TokenArray && strings.Contains(sets.DocRaw, arrayShapeSuffix) {
		return true
	}
	if tok == TokenString && strings.HasPrefix(sets.DocRaw, classStringPrefix) {
		return true
	}
	if tok == TokenBool && boolLiteralsOnly(sets) {
		return true
	}
	if !e.isKnown(tok) {
		return false
	}

	for _, candidate := range sets.Annotated {
		// Substring match tolerates names shortened by a different import context.
		if candidate == tok || tok.Contains(candidate) {
			return true
		}
		if e.isKnown(candidate) && e.registry.IsSubtypeOf(string(candidate), string(tok)) {
			return true
		}
	}
	return false
}

// boolLiteralsOnly reports whether the documented set narrows bool to true and false
// literals, with null allowed only when the declared side is nullable.
func boolLiteralsOnly(sets TypeSets) bool {
	literal := false
	for _, a := range sets.Annotated {
		switch {
		case a == TokenTrue || a == TokenFalse:
			literal = true
		case a.IsNull() && sets.Declared.Contains(TokenNull):
		default:
			return false
		}
	}
	return literal
}

// needsJustification limits Pass B to tokens that add nullability or diverge from the
// primary declared type.
func needsJustification(tok, primary Token) bool {
	return tok == TokenNull || (primary != "" && tok != primary)
}

// annotatedCovered decides whether documented token tok is justified by the primary
// declared type.
func (e *Engine) annotatedCovered(tok Token, sets TypeSets) bool {
	primary := sets.Primary

	switch {
	case primary == TokenBool && (tok == TokenTrue || tok == TokenFalse):
		return true
	case primary == TokenString && tok.IsClassString():
		return true
	case e.acceptsArrayShape(primary) && tok.HasArrayShape():
		return true
	}

	if primary == "" {
		return false
	}
	if tok == primary || primary.Contains(tok) {
		return true
	}
	return e.isKnown(primary) && e.isKnown(tok) &&
		e.registry.IsSubtypeOf(string(tok), string(primary))
}

func (e *Engine) acceptsArrayShape(primary Token) bool {
	if primary == TokenArray {
		return true
	}
	for _, marker := range e.rules.IterableMarkers {
		if primary == marker {
			return true
		}
	}
	return false
}

func (e *Engine) isKnown(tok Token) bool {
	return tok != "" && e.registry.IsKnownType(string(tok))
}
