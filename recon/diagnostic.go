package recon

import "strings"

// DefaultLabel names the documentation source in messages.
const DefaultLabel = "annotation"

// Kind classifies a mismatch.
type Kind uint8

const (
	// Missing: a declared token has no counterpart in the documented type.
	Missing Kind = iota + 1
	// Wrong: a documented token is not justified by the declared type.
	Wrong
)

func (k Kind) String() string {
	switch k {
	case Missing:
		return "missing"
	case Wrong:
		return "wrong"
	default:
		return "unknown"
	}
}

// Diagnostic is one uncovered token.
type Diagnostic struct {
	Kind        Kind
	Token       Token
	Declaration Declaration
}

// File is the source file the diagnostic is grouped under.
func (d Diagnostic) File() string {
	return d.Declaration.File
}

// Line is the 1-based line of the declaration, 0 when unknown.
func (d Diagnostic) Line() int {
	return d.Declaration.Line
}

// Message renders d, e.g.
//
//	[12]: missing parameter type "int" in annotation from App\Foo->bar() | parameter:id
//	[12]: wrong property type "string" in annotation from App\Foo  | property:name
//
// Wrong messages separate the qualifier with two spaces. label defaults to DefaultLabel.
func (d Diagnostic) Message(label string) string {
	if label == "" {
		label = DefaultLabel
	}
	decl := d.Declaration
	subject := decl.Subject()

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(decl.LineText())
	b.WriteString("]: ")
	b.WriteString(d.Kind.String())
	b.WriteString(" ")
	b.WriteString(subject.String())
	b.WriteString(` type "`)
	b.WriteString(string(d.Token))
	b.WriteString(`" in `)
	b.WriteString(label)
	b.WriteString(" from ")
	b.WriteString(decl.Name)

	if subject != SubjectReturn {
		if d.Kind == Wrong {
			b.WriteString("  | ")
		} else {
			b.WriteString(" | ")
		}
		b.WriteString(subject.String())
		b.WriteString(":")
		b.WriteString(decl.Qualifier())
	}
	return b.String()
}
