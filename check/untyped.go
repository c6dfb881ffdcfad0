package check

import (
	"strings"

	"github.com/teranos/doctor/decl"
	"github.com/teranos/doctor/recon"
)

// untyped reports a declaration that has no native type. ok is false when the
// declaration is documented and ambiguous types are skipped.
func (c *Checker) untyped(d decl.Declaration) (msg string, ok bool) {
	if c.opts.SkipAmbiguous && d.Documented() {
		return "", false
	}
	return UntypedMessage(d), true
}

// UntypedMessage renders "[line]: missing <subject> type for <name>".
func UntypedMessage(d decl.Declaration) string {
	rd := d.Recon()

	var b strings.Builder
	b.WriteString("[")
	b.WriteString(rd.LineText())
	b.WriteString("]: missing ")
	b.WriteString(rd.Subject().String())
	b.WriteString(" type for ")
	b.WriteString(d.Name)
	switch rd.Subject() {
	case recon.SubjectProperty:
		b.WriteString("->$")
		b.WriteString(rd.Property)
	case recon.SubjectParameter:
		b.WriteString(" | parameter:")
		b.WriteString(rd.Parameter)
	}
	return b.String()
}
