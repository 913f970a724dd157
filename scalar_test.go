package sect233

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	t.Run("Zero", func(t *testing.T) {
		s := NewScalar()
		require.True(t, s.IsZero())
		require.Zero(t, s.Sign())
		require.Zero(t, s.BitLen())

		// Negating zero stays zero with a positive sign.
		s.Negate(s)
		require.Zero(t, s.Sign())
		require.True(t, s.Equal(NewScalar()))
	})

	t.Run("Sign", func(t *testing.T) {
		s := NewScalarFromUint64(5)
		require.Equal(t, 1, s.Sign())

		n := NewScalar().Negate(s)
		require.Equal(t, -1, n.Sign())
		require.False(t, n.Equal(s))
		require.True(t, NewScalar().Negate(n).Equal(s))

		require.Equal(t, -1, NewScalarFromBigInt(big.NewInt(-42)).Sign())
	})

	t.Run("MagnitudeBits", func(t *testing.T) {
		// Bit queries are over the magnitude, not a two's complement
		// representation.
		n := NewScalarFromBigInt(big.NewInt(-6))
		require.Equal(t, 3, n.BitLen())
		require.EqualValues(t, 0, n.Bit(0))
		require.EqualValues(t, 1, n.Bit(1))
		require.EqualValues(t, 1, n.Bit(2))
	})

	t.Run("Cmp", func(t *testing.T) {
		two := NewScalarFromUint64(2)
		five := NewScalarFromUint64(5)
		negTwo := NewScalar().Negate(two)
		negFive := NewScalar().Negate(five)

		require.Equal(t, -1, two.Cmp(five))
		require.Equal(t, 1, five.Cmp(two))
		require.Equal(t, 0, two.Cmp(NewScalarFromUint64(2)))
		require.Equal(t, -1, negTwo.Cmp(two))
		require.Equal(t, 1, negTwo.Cmp(negFive))
		require.Equal(t, -1, negFive.Cmp(NewScalar()))
		require.Equal(t, 0, NewScalar().Cmp(NewScalar()))
	})

	t.Run("Conversions", func(t *testing.T) {
		x := big.NewInt(-123456789)
		s := NewScalarFromBigInt(x)
		require.Zero(t, s.BigInt().Cmp(x))
		require.Equal(t, "-123456789", s.String())

		// BigInt copies.
		s.BigInt().SetUint64(0)
		require.False(t, s.IsZero())

		// SetBigInt copies.
		y := big.NewInt(7)
		s.SetBigInt(y)
		y.SetUint64(9)
		require.Equal(t, "7", s.String())

		require.Equal(t, "258", NewScalar().SetBytes([]byte{0x01, 0x02}).String())
	})

	t.Run("MustRandomize", func(t *testing.T) {
		c := K233()
		s := NewScalar().MustRandomize(c)
		require.Negative(t, s.BigInt().Cmp(c.Order()))
		require.GreaterOrEqual(t, s.Sign(), 0)
	})
}
