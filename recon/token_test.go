package recon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		enclosing string
		want      TypeSet
	}{
		{"empty", "", "Foo", nil},
		{"single", "int", "", TypeSet{"int"}},
		{"union keeps order", "string|int|null", "", TypeSet{"string", "int", "null"}},
		{"drops empty members", "|int||null|", "", TypeSet{"int", "null"}},
		{"dedups first occurrence", "int|null|int", "", TypeSet{"int", "null"}},
		{"strips leading separator", `\App\User|null`, "", TypeSet{`App\User`, "null"}},
		{"strips repeated separators", `\\App\User`, "", TypeSet{`App\User`}},
		{"self marker", "self", `App\User`, TypeSet{`App\User`}},
		{"static marker", "static|null", `App\User`, TypeSet{`App\User`, "null"}},
		{"this marker", "$this", `\App\User`, TypeSet{`App\User`}},
		{"marker without enclosing is dropped", "self|int", "", TypeSet{"int"}},
		{"marker dedups with explicit name", `App\User|self`, `App\User`, TypeSet{`App\User`}},
		{"separator only", `\`, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw, tt.enclosing))
		})
	}
}

func TestNormalize_NeverEmptyOrSeparatorPrefixed(t *testing.T) {
	inputs := []string{"", "|", "||", `\|\\`, "self|static|$this", `\Foo|\Bar|Foo`, "a|b|c|a|b|c"}
	for _, raw := range inputs {
		for _, tok := range Normalize(raw, "") {
			assert.NotEmpty(t, tok, "raw %q", raw)
			assert.NotEqual(t, `\`, string(tok)[:1], "raw %q", raw)
		}
	}
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, Token("null").IsNull())
	assert.True(t, Token("NULL").IsNull())
	assert.False(t, Token("nullable").IsNull())

	assert.True(t, Token("int[]").HasArrayShape())
	assert.True(t, Token("array<int, Foo[]>").HasArrayShape())
	assert.False(t, Token("array").HasArrayShape())

	assert.True(t, Token("class-string<Foo>").IsClassString())
	assert.True(t, Token("class-string").IsClassString())
	assert.False(t, Token("string").IsClassString())

	assert.True(t, Token(`App\Models\User`).Contains("User"))
	assert.False(t, Token("User").Contains(`App\User`))
}

func TestTypeSet(t *testing.T) {
	s := TypeSet{"int", "null"}

	assert.True(t, s.Contains("null"))
	assert.False(t, s.Contains("string"))
	assert.True(t, s.Equal(TypeSet{"null", "int"}))
	assert.False(t, s.Equal(TypeSet{"int"}))
	assert.False(t, s.Equal(TypeSet{"int", "string"}))
	assert.Equal(t, "int|null", s.String())
	assert.Equal(t, []string{"int", "null"}, s.Strings())
}
