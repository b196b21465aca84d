package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUint128Arithmetic(t *testing.T) {
	t.Run("add wraps like unsigned 128-bit overflow", func(t *testing.T) {
		max := Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
		got := max.Add(Uint128{Lo: 1})
		assert.Equal(t, Uint128{}, got)
	})

	t.Run("mul matches 64-bit reference for small operands", func(t *testing.T) {
		a := Uint128FromUint64(123456789)
		b := Uint128FromUint64(987654321)
		got := a.Mul(b)
		v, ok := got.Uint64()
		assert.True(t, ok)
		assert.Equal(t, uint64(123456789)*987654321, v)
	})

	t.Run("div mod roundtrip", func(t *testing.T) {
		a := Uint128FromUint64(1000)
		b := Uint128FromUint64(7)
		q, r := a.DivMod(b)
		assert.Equal(t, Uint128FromUint64(142), q)
		assert.Equal(t, Uint128FromUint64(6), r)
	})

	t.Run("checked add reports overflow", func(t *testing.T) {
		max := Uint128{Hi: ^uint64(0), Lo: ^uint64(0)}
		_, ok := max.CheckedAdd(Uint128{Lo: 1})
		assert.False(t, ok)

		sum, ok := Uint128FromUint64(1).CheckedAdd(Uint128FromUint64(2))
		assert.True(t, ok)
		assert.Equal(t, Uint128FromUint64(3), sum)
	})

	t.Run("checked mul reports overflow when both halves have high bits", func(t *testing.T) {
		big := Uint128{Hi: 1, Lo: 0}
		_, ok := big.CheckedMul(big)
		assert.False(t, ok)
	})

	t.Run("clz ctz popcount", func(t *testing.T) {
		one := Uint128FromUint64(1)
		assert.Equal(t, 127, one.Clz())
		assert.Equal(t, 0, one.Ctz())
		assert.Equal(t, 1, one.Popcount())
	})

	t.Run("decimal string round-trips through parsing", func(t *testing.T) {
		v := Uint128FromUint64(18446744073709551615).Add(Uint128FromUint64(1))
		s := v.String()
		parsed, ok := Uint128FromString(s)
		assert.True(t, ok)
		assert.Equal(t, v, parsed)
	})

	t.Run("hex string parses back", func(t *testing.T) {
		v, ok := Uint128FromString("0xFF")
		assert.True(t, ok)
		n, ok := v.Uint64()
		assert.True(t, ok)
		assert.Equal(t, uint64(255), n)
	})

	t.Run("malformed input is rejected", func(t *testing.T) {
		_, ok := Uint128FromString("not a number")
		assert.False(t, ok)
	})
}

func TestInt128(t *testing.T) {
	t.Run("negative values render with a leading minus", func(t *testing.T) {
		n := Int128FromInt64(-42)
		assert.Equal(t, "-42", n.String())
	})

	t.Run("round-trips through Int64 for in-range values", func(t *testing.T) {
		n := Int128FromInt64(-1000)
		v, ok := n.Int64()
		assert.True(t, ok)
		assert.Equal(t, int64(-1000), v)
	})

	t.Run("signed arithmetic crosses zero correctly", func(t *testing.T) {
		got := Int128FromInt64(-5).Add(Int128FromInt64(12))
		v, ok := got.Int64()
		assert.True(t, ok)
		assert.Equal(t, int64(7), v)

		got = Int128FromInt64(3).Mul(Int128FromInt64(-4))
		v, ok = got.Int64()
		assert.True(t, ok)
		assert.Equal(t, int64(-12), v)
	})

	t.Run("signed division truncates toward zero", func(t *testing.T) {
		q, r := Int128FromInt64(-7).DivMod(Int128FromInt64(2))
		qv, _ := q.Int64()
		rv, _ := r.Int64()
		assert.Equal(t, int64(-3), qv)
		assert.Equal(t, int64(-1), rv)
	})

	t.Run("signed comparison orders negatives below positives", func(t *testing.T) {
		assert.Equal(t, -1, Int128FromInt64(-1).Cmp(Int128FromInt64(1)))
		assert.Equal(t, 1, Int128FromInt64(1).Cmp(Int128FromInt64(-1)))
		assert.Equal(t, 0, Int128FromInt64(5).Cmp(Int128FromInt64(5)))
	})
}
