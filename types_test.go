package ferrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeDescriptorRefcount(t *testing.T) {
	t.Run("retain/release balance returns the count to zero", func(t *testing.T) {
		b := newBuiltinTable()
		td := b.GetBuiltin("i32")
		require.EqualValues(t, 1, td.RefCount())
		td.Retain()
		assert.EqualValues(t, 2, td.RefCount())
		td.Release()
		assert.EqualValues(t, 1, td.RefCount())
		td.Release()
		assert.EqualValues(t, 0, td.RefCount())
	})

	t.Run("a nil descriptor tolerates retain/release/refcount", func(t *testing.T) {
		var td *TypeDescriptor
		assert.NotPanics(t, func() {
			td.Retain()
			td.Release()
		})
		assert.EqualValues(t, 0, td.RefCount())
	})
}

func TestTypeDescriptorEquality(t *testing.T) {
	b := newBuiltinTable()

	t.Run("primitives compare structurally", func(t *testing.T) {
		assert.True(t, b.GetBuiltin("i32").Equal(b.GetBuiltin("i32")))
		assert.False(t, b.GetBuiltin("i32").Equal(b.GetBuiltin("u32")))
		assert.False(t, b.GetBuiltin("i32").Equal(b.GetBuiltin("i64")))
	})

	t.Run("structs and enums compare nominally", func(t *testing.T) {
		a := &TypeDescriptor{Category: CategoryStruct, Name: "Point"}
		c := &TypeDescriptor{Category: CategoryStruct, Name: "Point", Fields: NewSymbolTable(nil)}
		d := &TypeDescriptor{Category: CategoryStruct, Name: "Color"}
		assert.True(t, a.Equal(c))
		assert.False(t, a.Equal(d))
	})

	t.Run("slices compare element type and mutability", func(t *testing.T) {
		mutI32 := &TypeDescriptor{Category: CategorySlice, Elem: b.GetBuiltin("i32"), ElemMutable: Mutable}
		constI32 := &TypeDescriptor{Category: CategorySlice, Elem: b.GetBuiltin("i32"), ElemMutable: Immutable}
		assert.False(t, mutI32.Equal(constI32))
	})
}

func TestIntRangeAndUint64Range(t *testing.T) {
	t.Run("i8 range is -128..127", func(t *testing.T) {
		lo, hi, ok := IntRange(true, Width8)
		require.True(t, ok)
		assert.Equal(t, int64(-128), lo)
		assert.Equal(t, int64(127), hi)
	})

	t.Run("i128/u128 report ok=false", func(t *testing.T) {
		_, _, ok := IntRange(true, Width128)
		assert.False(t, ok)
		_, _, ok = IntRange(false, Width128)
		assert.False(t, ok)
	})

	t.Run("u64's full range is representable via IsUint64InRange", func(t *testing.T) {
		assert.True(t, IsUint64InRange(^uint64(0), Width64))
	})

	t.Run("u8 rejects a value one past its max", func(t *testing.T) {
		assert.True(t, IsUint64InRange(255, Width8))
		assert.False(t, IsUint64InRange(256, Width8))
	})
}

func TestTypeInfoSizes(t *testing.T) {
	b := newBuiltinTable()

	t.Run("primitive sizes are exact", func(t *testing.T) {
		assert.Equal(t, 4, NewTypeInfo(b.GetBuiltin("i32")).SizeInBytes)
		assert.Equal(t, 1, NewTypeInfo(b.GetBuiltin("bool")).SizeInBytes)
		assert.Equal(t, 8, NewTypeInfo(b.GetBuiltin("f64")).SizeInBytes)
	})

	t.Run("a slice is three words", func(t *testing.T) {
		sl := &TypeDescriptor{Category: CategorySlice, Elem: b.GetBuiltin("i32")}
		assert.Equal(t, 24, NewTypeInfo(sl).SizeInBytes)
	})

	t.Run("never and void have no runtime size", func(t *testing.T) {
		assert.Equal(t, 0, NewTypeInfo(&TypeDescriptor{Category: CategoryNever}).SizeInBytes)
		assert.Equal(t, 0, NewTypeInfo(&TypeDescriptor{Category: CategoryVoid}).SizeInBytes)
	})
}

func TestBuiltinTableLookup(t *testing.T) {
	b := newBuiltinTable()
	assert.NotNil(t, b.GetBuiltin("i32"))
	assert.NotNil(t, b.GetBuiltin("usize"))
	assert.Nil(t, b.GetBuiltin("not_a_real_type"))
}
