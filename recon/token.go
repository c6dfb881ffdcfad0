package recon

import "strings"

// Token is a canonical type name: "int", "array", "Foo\Bar", "class-string<Foo>".
// A Token produced by Normalize is never empty and never starts with a namespace separator.
type Token string

// Well-known tokens the covering rules refer to.
const (
	TokenNull   Token = "null"
	TokenArray  Token = "array"
	TokenString Token = "string"
	TokenBool   Token = "bool"
	TokenTrue   Token = "true"
	TokenFalse  Token = "false"
)

const (
	unionSeparator     = "|"
	namespaceSeparator = `\`

	// arrayShapeSuffix marks a documented list type such as int[] or Foo[].
	arrayShapeSuffix = "[]"

	// classStringPrefix starts the documented refinements of string naming a class.
	classStringPrefix = "class-string"
)

// selfMarkers refer to the enclosing type and are replaced by its name.
var selfMarkers = map[string]bool{
	"$this":  true,
	"static": true,
	"self":   true,
}

// IsNull reports whether t is the null type. The comparison ignores case.
func (t Token) IsNull() bool {
	return strings.EqualFold(string(t), string(TokenNull))
}

// HasArrayShape reports whether t contains the list suffix "[]".
func (t Token) HasArrayShape() bool {
	return strings.Contains(string(t), arrayShapeSuffix)
}

// IsClassString reports whether t is a class-string refinement.
func (t Token) IsClassString() bool {
	return strings.HasPrefix(string(t), classStringPrefix)
}

// Contains reports whether other occurs in t as a substring.
func (t Token) Contains(other Token) bool {
	return strings.Contains(string(t), string(other))
}

func (t Token) String() string {
	return string(t)
}

// TypeSet is an ordered set of tokens. The first occurrence of a token fixes its position.
type TypeSet []Token

// Contains reports whether tok is a member of s.
func (s TypeSet) Contains(tok Token) bool {
	for _, t := range s {
		if t == tok {
			return true
		}
	}
	return false
}

// Equal reports whether s and other hold the same members, ignoring order.
func (s TypeSet) Equal(other TypeSet) bool {
	if len(s) != len(other) {
		return false
	}
	for _, t := range s {
		if !other.Contains(t) {
			return false
		}
	}
	return true
}

// Strings returns the members as plain strings.
func (s TypeSet) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = string(t)
	}
	return out
}

func (s TypeSet) String() string {
	return strings.Join(s.Strings(), unionSeparator)
}

// Normalize turns a raw union string into a TypeSet.
//
// Empty members are dropped. Self markers ($this, static, self) become enclosing and are
// dropped when enclosing is empty. Leading namespace separators are stripped.
func Normalize(raw, enclosing string) TypeSet {
	if raw == "" {
		return nil
	}

	var set TypeSet
	for _, part := range strings.Split(raw, unionSeparator) {
		tok, ok := normalizeToken(part, enclosing)
		if !ok || set.Contains(tok) {
			continue
		}
		set = append(set, tok)
	}
	return set
}

func normalizeToken(part, enclosing string) (Token, bool) {
	if part == "" {
		return "", false
	}
	if selfMarkers[part] {
		part = enclosing
	}
	part = strings.TrimLeft(part, namespaceSeparator)
	if part == "" {
		return "", false
	}
	return Token(part), true
}
