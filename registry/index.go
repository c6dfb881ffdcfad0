// Package registry holds the class and interface hierarchy that the reconciliation engine
// consults for subtype questions.
//
// An Index is built once from a list of types and is read-only afterwards, so it can be
// shared between the workers of a check run. Names are compared case-insensitively with
// any leading namespace separator removed, the way PHP resolves class names.
package registry

import (
	"slices"
	"strings"

	"github.com/teranos/doctor/errors"
)

// Kind distinguishes classes from interfaces.
type Kind string

const (
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindClass || k == KindInterface
}

// Type is one class or interface with its direct parents.
type Type struct {
	Name       string   `json:"name" yaml:"name" toml:"name" msgpack:"name"`
	Kind       Kind     `json:"kind" yaml:"kind" toml:"kind" msgpack:"kind"`
	Extends    []string `json:"extends,omitempty" yaml:"extends,omitempty" toml:"extends,omitempty" msgpack:"extends,omitempty"`
	Implements []string `json:"implements,omitempty" yaml:"implements,omitempty" toml:"implements,omitempty" msgpack:"implements,omitempty"`
}

// Parents returns the direct supertypes of t, extends first.
func (t Type) Parents() []string {
	parents := make([]string, 0, len(t.Extends)+len(t.Implements))
	parents = append(parents, t.Extends...)
	return append(parents, t.Implements...)
}

// Index answers IsKnownType and IsSubtypeOf over a fixed set of types.
// It satisfies recon.Registry.
type Index struct {
	types     map[string]Type
	order     []string
	ancestors map[string]map[string]struct{}
}

// Canonical returns the lookup key for a class name.
func Canonical(name string) string {
	return strings.ToLower(strings.TrimLeft(strings.TrimSpace(name), `\`))
}

// NewIndex validates types and computes the transitive closure of their parents.
//
// Parents that are not themselves listed are allowed; they take part in the closure but
// are not known types. Duplicate names, unknown kinds, classes extending more than one
// class, and inheritance cycles are rejected.
func NewIndex(types []Type) (*Index, error) {
	idx := &Index{
		types:     make(map[string]Type, len(types)),
		order:     make([]string, 0, len(types)),
		ancestors: make(map[string]map[string]struct{}, len(types)),
	}

	for _, t := range types {
		key := Canonical(t.Name)
		if key == "" {
			return nil, errors.Wrap(errors.ErrInvalidRequest, "type with empty name")
		}
		if t.Kind == "" {
			t.Kind = KindClass
		}
		if !t.Kind.Valid() {
			return nil, errors.Wrapf(errors.ErrInvalidRequest, "type %s has unknown kind %q", t.Name, t.Kind)
		}
		if t.Kind == KindClass && len(t.Extends) > 1 {
			return nil, errors.Wrapf(errors.ErrInvalidRequest, "class %s extends %d classes", t.Name, len(t.Extends))
		}
		if _, dup := idx.types[key]; dup {
			return nil, errors.Wrapf(errors.ErrInvalidRequest, "duplicate type %s", t.Name)
		}
		t.Name = strings.TrimLeft(strings.TrimSpace(t.Name), `\`)
		t.Extends = trimNames(t.Extends)
		t.Implements = trimNames(t.Implements)
		idx.types[key] = t
		idx.order = append(idx.order, key)
	}

	state := make(map[string]visitState, len(idx.types))
	for _, key := range idx.order {
		if _, err := idx.closure(key, state, nil); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

type visitState uint8

const (
	unvisited visitState = iota
	visiting
	done
)

// closure fills idx.ancestors[key] depth-first. path is the chain of types currently
// being visited, used to describe a cycle.
func (idx *Index) closure(key string, state map[string]visitState, path []string) (map[string]struct{}, error) {
	switch state[key] {
	case done:
		return idx.ancestors[key], nil
	case visiting:
		cycle := append(slices.Clone(path), key)
		return nil, errors.WithHintf(
			errors.Wrapf(errors.ErrInvalidRequest, "inheritance cycle: %s", strings.Join(cycle, " -> ")),
			"remove one of the extends/implements entries between these types")
	}

	t, ok := idx.types[key]
	if !ok {
		// Unlisted parent: a leaf with no known ancestors.
		return nil, nil
	}

	state[key] = visiting
	path = append(path, key)

	ancestors := make(map[string]struct{})
	for _, parent := range t.Parents() {
		pkey := Canonical(parent)
		if pkey == "" {
			continue
		}
		ancestors[pkey] = struct{}{}
		inherited, err := idx.closure(pkey, state, path)
		if err != nil {
			return nil, err
		}
		for a := range inherited {
			ancestors[a] = struct{}{}
		}
	}

	state[key] = done
	idx.ancestors[key] = ancestors
	return ancestors, nil
}

func trimNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimLeft(strings.TrimSpace(n), `\`); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// IsKnownType reports whether name is a listed class or interface.
func (idx *Index) IsKnownType(name string) bool {
	if idx == nil {
		return false
	}
	_, ok := idx.types[Canonical(name)]
	return ok
}

// IsSubtypeOf reports whether sub extends or implements sup, directly or transitively.
// Both names must be known and a type is not its own subtype.
func (idx *Index) IsSubtypeOf(sub, sup string) bool {
	if idx == nil {
		return false
	}
	subKey, supKey := Canonical(sub), Canonical(sup)
	if subKey == supKey {
		return false
	}
	if _, ok := idx.types[supKey]; !ok {
		return false
	}
	_, ok := idx.ancestors[subKey][supKey]
	return ok
}

// Lookup returns the type registered under name.
func (idx *Index) Lookup(name string) (Type, bool) {
	if idx == nil {
		return Type{}, false
	}
	t, ok := idx.types[Canonical(name)]
	return t, ok
}

// Ancestors returns every supertype of name, sorted.
func (idx *Index) Ancestors(name string) []string {
	if idx == nil {
		return nil
	}
	set := idx.ancestors[Canonical(name)]
	out := make([]string, 0, len(set))
	for a := range set {
		if t, ok := idx.types[a]; ok {
			out = append(out, t.Name)
			continue
		}
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Types returns the registered types in insertion order.
func (idx *Index) Types() []Type {
	if idx == nil {
		return nil
	}
	out := make([]Type, 0, len(idx.order))
	for _, key := range idx.order {
		out = append(out, idx.types[key])
	}
	return out
}

// Len returns the number of registered types.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.order)
}
