package recon

// TypeSets is the normalised view of one declaration.
type TypeSets struct {
	Declared  TypeSet
	Annotated TypeSet

	// Primary is the last non-null declared token, empty when there is none.
	// For a union like int|string only "string" is kept.
	Primary Token

	// DocRaw is the raw documented string; some rules look at it before normalisation.
	DocRaw string
}

// Comparable reports whether both sides carry at least one token.
func (s TypeSets) Comparable() bool {
	return len(s.Declared) > 0 && len(s.Annotated) > 0
}

// BuildTypeSets normalises both type strings of d.
//
// A literal null default makes the declared type nullable even when the native syntax
// omits the marker: `function f(Foo $x = null)` declares Foo|null.
func BuildTypeSets(d Declaration) TypeSets {
	declaredRaw := d.DeclaredType
	if Token(d.DefaultType) == TokenNull {
		if declaredRaw == "" {
			declaredRaw = string(TokenNull)
		} else {
			declaredRaw += unionSeparator + string(TokenNull)
		}
	}

	declared := Normalize(declaredRaw, d.EnclosingType)

	var primary Token
	for _, tok := range declared {
		if !tok.IsNull() {
			primary = tok
		}
	}

	return TypeSets{
		Declared:  declared,
		Annotated: Normalize(d.DocType, d.EnclosingType),
		Primary:   primary,
		DocRaw:    d.DocType,
	}
}
