package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/doctor/errors"
	"github.com/teranos/doctor/recon"
)

func animals(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex([]Type{
		{Name: `App\Animal`, Kind: KindInterface},
		{Name: `App\Pet`, Kind: KindInterface, Extends: []string{`\App\Animal`}},
		{Name: `App\Dog`, Kind: KindClass, Implements: []string{`App\Pet`}},
		{Name: `App\Puppy`, Kind: KindClass, Extends: []string{`App\Dog`}},
		{Name: `App\Cat`, Extends: []string{`Vendor\Feline`}},
	})
	require.NoError(t, err)
	return idx
}

func TestIndex_SatisfiesRegistry(t *testing.T) {
	var _ recon.Registry = (*Index)(nil)
}

func TestIndex_IsKnownType(t *testing.T) {
	idx := animals(t)

	assert.True(t, idx.IsKnownType(`App\Dog`))
	assert.True(t, idx.IsKnownType(`\app\dog`), "lookups ignore case and leading separator")
	assert.False(t, idx.IsKnownType(`Vendor\Feline`), "unlisted parents are not known")
	assert.False(t, idx.IsKnownType("int"))
	assert.False(t, idx.IsKnownType(""))
}

func TestIndex_IsSubtypeOf(t *testing.T) {
	idx := animals(t)

	tests := []struct {
		sub, sup string
		want     bool
	}{
		{`App\Dog`, `App\Pet`, true},
		{`App\Dog`, `App\Animal`, true},
		{`App\Puppy`, `App\Animal`, true},
		{`App\Pet`, `App\Animal`, true},
		{`\APP\PUPPY`, `app\dog`, true},
		{`App\Animal`, `App\Dog`, false},
		{`App\Dog`, `App\Dog`, false},
		{`App\Cat`, `Vendor\Feline`, false},
		{`App\Cat`, `App\Animal`, false},
		{`Unknown`, `App\Animal`, false},
	}
	for _, tt := range tests {
		t.Run(tt.sub+"<:"+tt.sup, func(t *testing.T) {
			assert.Equal(t, tt.want, idx.IsSubtypeOf(tt.sub, tt.sup))
		})
	}
}

func TestIndex_LookupAndTypes(t *testing.T) {
	idx := animals(t)

	dog, ok := idx.Lookup(`\app\DOG`)
	require.True(t, ok)
	assert.Equal(t, `App\Dog`, dog.Name)
	assert.Equal(t, []string{`App\Pet`}, dog.Implements)

	pet, ok := idx.Lookup(`App\Pet`)
	require.True(t, ok)
	assert.Equal(t, []string{`App\Animal`}, pet.Extends, "leading separator trimmed from parents")

	cat, ok := idx.Lookup(`App\Cat`)
	require.True(t, ok)
	assert.Equal(t, KindClass, cat.Kind, "kind defaults to class")

	assert.Equal(t, 5, idx.Len())
	names := make([]string, 0, idx.Len())
	for _, ty := range idx.Types() {
		names = append(names, ty.Name)
	}
	assert.Equal(t, []string{`App\Animal`, `App\Pet`, `App\Dog`, `App\Puppy`, `App\Cat`}, names)

	assert.Equal(t, []string{`App\Animal`, `App\Dog`, `App\Pet`}, idx.Ancestors(`App\Puppy`))
}

func TestNewIndex_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		types []Type
		msg   string
	}{
		{"empty name", []Type{{Name: `\`}}, "empty name"},
		{"unknown kind", []Type{{Name: "A", Kind: "trait"}}, "unknown kind"},
		{"duplicate", []Type{{Name: "A"}, {Name: `\a`}}, "duplicate type"},
		{"multiple inheritance", []Type{{Name: "A", Extends: []string{"B", "C"}}}, "extends 2 classes"},
		{"self cycle", []Type{{Name: "A", Extends: []string{"A"}}}, "inheritance cycle"},
		{"long cycle", []Type{
			{Name: "A", Kind: KindInterface, Extends: []string{"B"}},
			{Name: "B", Kind: KindInterface, Extends: []string{"C"}},
			{Name: "C", Kind: KindInterface, Extends: []string{"A"}},
		}, "a -> b -> c -> a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewIndex(tt.types)
			require.Error(t, err)
			assert.Nil(t, idx)
			assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestIndex_NilIsEmpty(t *testing.T) {
	var idx *Index
	assert.False(t, idx.IsKnownType("A"))
	assert.False(t, idx.IsSubtypeOf("A", "B"))
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Types())
}

func TestIndex_DrivesEngine(t *testing.T) {
	idx := animals(t)
	engine := recon.NewEngine(idx)

	// Documented subclass narrows the declared interface.
	covered := engine.Findings(recon.Declaration{
		Name: "adopt()", Line: 3, DeclaredType: `App\Pet`, DocType: `App\Dog`,
	})
	assert.Empty(t, covered)

	// An unrelated known class does not.
	uncovered := engine.Findings(recon.Declaration{
		Name: "adopt()", Line: 3, DeclaredType: `App\Pet`, DocType: `App\Cat`,
	})
	require.Len(t, uncovered, 2)
	assert.Equal(t, recon.Missing, uncovered[0].Kind)
	assert.Equal(t, recon.Wrong, uncovered[1].Kind)
}
