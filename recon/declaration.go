package recon

import "strconv"

// Subject says which part of a declaration a type describes.
type Subject uint8

const (
	SubjectReturn Subject = iota
	SubjectParameter
	SubjectProperty
)

func (s Subject) String() string {
	switch s {
	case SubjectParameter:
		return "parameter"
	case SubjectProperty:
		return "property"
	default:
		return "return"
	}
}

// Declaration is one type check request as produced by an extractor.
//
// At most one of Parameter and Property is set; neither is set for a return type.
// Line is 1-based, 0 when unknown. An empty File groups diagnostics under "".
type Declaration struct {
	// Name is the display name of the declaration, e.g. `App\User->rename()`.
	Name string
	// EnclosingType replaces $this, static and self in both type strings.
	EnclosingType string

	Parameter string
	Property  string

	File string
	Line int

	// DeclaredType is the raw native type, e.g. "?int" rendered as "int|null".
	DeclaredType string
	// DocType is the raw documented type from @param, @return or @var.
	DocType string
	// DefaultType is the type implied by a literal default value. Only "null" has effect.
	DefaultType string
}

// Subject derives what the declaration's types describe. Property wins over Parameter.
func (d Declaration) Subject() Subject {
	switch {
	case d.Property != "":
		return SubjectProperty
	case d.Parameter != "":
		return SubjectParameter
	default:
		return SubjectReturn
	}
}

// Qualifier is the parameter or property name, empty for return types.
func (d Declaration) Qualifier() string {
	switch d.Subject() {
	case SubjectProperty:
		return d.Property
	case SubjectParameter:
		return d.Parameter
	default:
		return ""
	}
}

// LineText renders the line for messages, "?" when unknown.
func (d Declaration) LineText() string {
	if d.Line <= 0 {
		return "?"
	}
	return strconv.Itoa(d.Line)
}
