// Package decl reads the declaration manifests that an extractor produces for a PHP code
// base: one record per function return, parameter or property, carrying the native type,
// the documented type and the default value type.
package decl

import (
	"strings"

	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/recon"
)

// Kind is the declaration site a record describes.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindParameter Kind = "parameter"
	KindProperty  Kind = "property"
)

// Declaration is one manifest record.
type Declaration struct {
	// Name is the qualified function or method name, e.g. `App\User->getName()`,
	// or the class name for properties.
	Name      string `json:"name" yaml:"name"`
	Class     string `json:"class,omitempty" yaml:"class,omitempty"`
	Parameter string `json:"parameter,omitempty" yaml:"parameter,omitempty"`
	Property  string `json:"property,omitempty" yaml:"property,omitempty"`
	File      string `json:"file,omitempty" yaml:"file,omitempty"`
	Line      int    `json:"line,omitempty" yaml:"line,omitempty"`

	Type            string `json:"type,omitempty" yaml:"type,omitempty"`
	DocType         string `json:"doc_type,omitempty" yaml:"doc_type,omitempty"`
	DocTypeExtended string `json:"doc_type_extended,omitempty" yaml:"doc_type_extended,omitempty"`
	DefaultType     string `json:"default_type,omitempty" yaml:"default_type,omitempty"`

	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// EffectiveKind returns Kind, inferring it from the property and parameter fields when
// the record leaves it empty.
func (d Declaration) EffectiveKind() Kind {
	switch {
	case d.Kind != "":
		return d.Kind
	case d.Property != "":
		return KindProperty
	case d.Parameter != "":
		return KindParameter
	case strings.Contains(d.Name, "->") || strings.Contains(d.Name, "::"):
		return KindMethod
	}
	return KindFunction
}

// Typed reports whether the declaration has a native type.
func (d Declaration) Typed() bool {
	return strings.TrimSpace(d.Type) != ""
}

// Documented reports whether a doc comment gave any type at all.
func (d Declaration) Documented() bool {
	return strings.TrimSpace(d.DocType) != "" || strings.TrimSpace(d.DocTypeExtended) != ""
}

// Validate checks the fields a record must carry for its kind.
func (d Declaration) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.NewInvalidRequestError("declaration without name")
	}
	if d.Line < 0 {
		return errors.NewInvalidRequestError("declaration %s has negative line %d", d.Name, d.Line)
	}
	switch d.EffectiveKind() {
	case KindFunction, KindMethod:
	case KindParameter:
		if d.Parameter == "" {
			return errors.NewInvalidRequestError("parameter declaration %s without parameter name", d.Name)
		}
	case KindProperty:
		if d.Property == "" {
			return errors.NewInvalidRequestError("property declaration %s without property name", d.Name)
		}
	default:
		return errors.NewInvalidRequestError("declaration %s has unknown kind %q", d.Name, d.Kind)
	}
	return nil
}

// Recon converts the record into the engine's input. The simple doc type is what gets
// reconciled; the extended form only marks the declaration as documented.
func (d Declaration) Recon() recon.Declaration {
	rd := recon.Declaration{
		Name:          d.Name,
		EnclosingType: d.Class,
		File:          d.File,
		Line:          d.Line,
		DeclaredType:  expandNullable(d.Type),
		DocType:       expandNullable(d.DocType),
		DefaultType:   d.DefaultType,
	}
	switch d.EffectiveKind() {
	case KindProperty:
		rd.Property = d.Property
	case KindParameter:
		rd.Parameter = d.Parameter
	}
	return rd
}

// expandNullable rewrites the ?T shorthand as T|null.
func expandNullable(raw string) string {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, "?"); ok && rest != "" {
		return rest + "|null"
	}
	return raw
}
