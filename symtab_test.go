package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableInsertAndLookup(t *testing.T) {
	t.Run("duplicate insertion in the same scope fails", func(t *testing.T) {
		s := NewSymbolTable(nil)
		assert.True(t, s.Insert(&SymbolEntry{Name: "x", Kind: SymbolVar}))
		assert.False(t, s.Insert(&SymbolEntry{Name: "x", Kind: SymbolVar}))
		assert.Equal(t, 1, s.Size())
	})

	t.Run("shadowing an outer scope is legal", func(t *testing.T) {
		outer := NewSymbolTable(nil)
		outer.Insert(&SymbolEntry{Name: "x", Kind: SymbolVar})
		inner := NewSymbolTable(outer)
		assert.True(t, inner.Insert(&SymbolEntry{Name: "x", Kind: SymbolVar}))

		_, ok := inner.LookupLocal("x")
		assert.True(t, ok)
	})

	t.Run("lookup walks the parent chain", func(t *testing.T) {
		outer := NewSymbolTable(nil)
		outer.Insert(&SymbolEntry{Name: "g", Kind: SymbolConst})
		inner := NewSymbolTable(outer)
		e, ok := inner.Lookup("g")
		require.True(t, ok)
		assert.Equal(t, SymbolConst, e.Kind)

		_, ok = inner.LookupLocal("g")
		assert.False(t, ok)
	})

	t.Run("lookup of an unbound name fails at the root", func(t *testing.T) {
		s := NewSymbolTable(nil)
		_, ok := s.Lookup("nope")
		assert.False(t, ok)
	})
}

func TestSymbolTableOrdinalsAndIteration(t *testing.T) {
	s := NewSymbolTable(nil)
	s.Insert(&SymbolEntry{Name: "a"})
	s.Insert(&SymbolEntry{Name: "b"})
	s.Insert(&SymbolEntry{Name: "c"})

	var order []string
	s.IterateOrdered(func(name string, e *SymbolEntry) bool {
		order = append(order, name)
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, order)

	e, _ := s.LookupLocal("b")
	assert.Equal(t, 1, e.Ordinal)
}

func TestSymbolTableAllNames(t *testing.T) {
	outer := NewSymbolTable(nil)
	outer.Insert(&SymbolEntry{Name: "outer_a"})
	outer.Insert(&SymbolEntry{Name: "shadowed"})
	inner := NewSymbolTable(outer)
	inner.Insert(&SymbolEntry{Name: "inner_a"})
	inner.Insert(&SymbolEntry{Name: "shadowed"})

	names := inner.AllNames()
	assert.Contains(t, names, "outer_a")
	assert.Contains(t, names, "inner_a")

	count := 0
	for _, n := range names {
		if n == "shadowed" {
			count++
		}
	}
	assert.Equal(t, 1, count, "a shadowed name should appear once in AllNames")
}
