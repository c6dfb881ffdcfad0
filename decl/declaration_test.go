package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/recon"
)

func TestDeclaration_EffectiveKind(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		want Kind
	}{
		{"explicit", Declaration{Name: "f()", Kind: KindMethod}, KindMethod},
		{"property field", Declaration{Name: "C", Property: "p"}, KindProperty},
		{"parameter field", Declaration{Name: "f()", Parameter: "x"}, KindParameter},
		{"instance method", Declaration{Name: `App\C->f()`}, KindMethod},
		{"static method", Declaration{Name: `App\C::f()`}, KindMethod},
		{"function", Declaration{Name: `App\f()`}, KindFunction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.decl.EffectiveKind())
		})
	}
}

func TestDeclaration_TypedAndDocumented(t *testing.T) {
	assert.False(t, Declaration{Type: "  "}.Typed())
	assert.True(t, Declaration{Type: "int"}.Typed())

	assert.False(t, Declaration{}.Documented())
	assert.True(t, Declaration{DocType: "int"}.Documented())
	assert.True(t, Declaration{DocTypeExtended: "list<int>"}.Documented())
}

func TestDeclaration_Validate(t *testing.T) {
	tests := []struct {
		name string
		decl Declaration
		msg  string
	}{
		{"no name", Declaration{}, "without name"},
		{"negative line", Declaration{Name: "f()", Line: -1}, "negative line"},
		{"parameter without name", Declaration{Name: "f()", Kind: KindParameter}, "without parameter name"},
		{"property without name", Declaration{Name: "C", Kind: KindProperty}, "without property name"},
		{"unknown kind", Declaration{Name: "f()", Kind: "closure"}, "unknown kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decl.Validate()
			assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	assert.NoError(t, Declaration{Name: "f()", Parameter: "x"}.Validate())
}

func TestDeclaration_Recon(t *testing.T) {
	d := Declaration{
		Name:        `App\User->rename()`,
		Class:       `App\User`,
		Parameter:   "name",
		File:        "src/User.php",
		Line:        12,
		Type:        "?string",
		DocType:     "string",
		DefaultType: "null",
	}

	assert.Equal(t, recon.Declaration{
		Name:          `App\User->rename()`,
		EnclosingType: `App\User`,
		Parameter:     "name",
		File:          "src/User.php",
		Line:          12,
		DeclaredType:  "string|null",
		DocType:       "string",
		DefaultType:   "null",
	}, d.Recon())
}

func TestDeclaration_ReconKindDecidesSubject(t *testing.T) {
	// A return record that happens to carry a parameter name stays a return.
	d := Declaration{Name: "f()", Parameter: "x", Kind: KindFunction}
	assert.Equal(t, recon.SubjectReturn, d.Recon().Subject())

	p := Declaration{Name: "C", Property: "p"}
	assert.Equal(t, recon.SubjectProperty, p.Recon().Subject())
}

func TestExpandNullable(t *testing.T) {
	assert.Equal(t, "int|null", expandNullable("?int"))
	assert.Equal(t, "int", expandNullable(" int "))
	assert.Equal(t, "?", expandNullable("?"))
	assert.Equal(t, "", expandNullable(""))
}
