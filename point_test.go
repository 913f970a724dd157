package sect233

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func testCurves() []*Curve {
	return []*Curve{K233(), B233()}
}

func randomPoint(t *testing.T, c *Curve) *Point {
	s := NewScalar().MustRandomize(c)
	if s.IsZero() {
		s.SetUint64(1)
	}
	return newRcvr().ScalarMult(s, NewGeneratorPoint(c))
}

func TestCurveParams(t *testing.T) {
	require.Equal(t, "sect233k1", K233().Name())
	require.Equal(t, "sect233r1", B233().Name())
	require.Equal(t, 232, K233().OrderBitLen())
	require.Equal(t, 233, B233().OrderBitLen())
	require.EqualValues(t, 4, K233().Cofactor())
	require.EqualValues(t, 2, B233().Cofactor())
	require.True(t, K233().IsKoblitz())
	require.False(t, B233().IsKoblitz())
	require.EqualValues(t, -1, K233().tauSign())

	// Order() copies.
	o := K233().Order()
	o.SetUint64(0)
	require.NotZero(t, K233().Order().Sign())
}

func TestPointArithmetic(t *testing.T) {
	for _, c := range testCurves() {
		c := c
		t.Run(c.Name(), func(t *testing.T) {
			g := NewGeneratorPoint(c)
			id := NewIdentityPoint(c)

			require.True(t, g.IsOnCurve(), "generator on curve")
			require.True(t, id.IsOnCurve(), "identity on curve")
			require.True(t, id.IsIdentity())
			require.False(t, g.IsIdentity())

			t.Run("Identity", func(t *testing.T) {
				sum := newRcvr().Add(g, id)
				require.True(t, sum.Equal(g), "G + 0 == G")
				sum.Add(id, g)
				require.True(t, sum.Equal(g), "0 + G == G")
				sum.Double(id)
				require.True(t, sum.IsIdentity(), "2 * 0 == 0")
			})

			t.Run("AddDoubleConsistency", func(t *testing.T) {
				p := randomPoint(t, c)
				dbl := newRcvr().Double(p)
				sum := newRcvr().Add(p, p)
				require.True(t, dbl.Equal(sum), "P + P == 2P")
				require.True(t, dbl.IsOnCurve())
			})

			t.Run("Commutative", func(t *testing.T) {
				p, q := randomPoint(t, c), randomPoint(t, c)
				l := newRcvr().Add(p, q)
				r := newRcvr().Add(q, p)
				require.True(t, l.Equal(r), "P + Q == Q + P")
				require.True(t, l.IsOnCurve())
			})

			t.Run("Associative", func(t *testing.T) {
				p, q, r := randomPoint(t, c), randomPoint(t, c), randomPoint(t, c)
				l := newRcvr().Add(p, q)
				l.Add(l, r)
				m := newRcvr().Add(q, r)
				m.Add(p, m)
				require.True(t, l.Equal(m), "(P + Q) + R == P + (Q + R)")
			})

			t.Run("Negation", func(t *testing.T) {
				p := randomPoint(t, c)
				neg := newRcvr().Negate(p)
				require.True(t, neg.IsOnCurve())
				require.False(t, neg.Equal(p))

				sum := newRcvr().Add(p, neg)
				require.True(t, sum.IsIdentity(), "P + (-P) == 0")

				neg.Negate(neg)
				require.True(t, neg.Equal(p), "-(-P) == P")

				diff := newRcvr().Subtract(p, p)
				require.True(t, diff.IsIdentity(), "P - P == 0")
			})

			t.Run("ScalarMult", func(t *testing.T) {
				p := randomPoint(t, c)

				triple := newRcvr().Add(p, p)
				triple.Add(triple, p)
				got := newRcvr().ScalarMult(NewScalarFromUint64(3), p)
				require.True(t, got.Equal(triple), "3 * P")

				got.ScalarMult(NewScalar(), p)
				require.True(t, got.IsIdentity(), "0 * P")

				negOne := NewScalar().Negate(NewScalarFromUint64(1))
				got.ScalarMult(negOne, p)
				require.True(t, got.Equal(newRcvr().Negate(p)), "-1 * P")

				got.ScalarMult(NewScalarFromBigInt(c.Order()), g)
				require.True(t, got.IsIdentity(), "order * G == 0")

				orderPlus1 := new(big.Int).Add(c.Order(), big.NewInt(1))
				got.ScalarMult(NewScalarFromBigInt(orderPlus1), g)
				require.True(t, got.Equal(g), "(order + 1) * G == G")
			})
		})
	}
}

func TestFrobenius(t *testing.T) {
	c := K233()

	for i := 0; i < 8; i++ {
		p := randomPoint(t, c)

		tp := newRcvr().Frobenius(p)
		require.True(t, tp.IsOnCurve(), "tau(P) on curve")

		// tau^2 = mu*tau - 2 with mu = -1, so tau^2(P) + tau(P) + 2P = 0.
		sum := newRcvr().Frobenius(tp)
		sum.Add(sum, tp)
		sum.Add(sum, newRcvr().Double(p))
		require.True(t, sum.IsIdentity(), "characteristic polynomial of tau")
	}

	// Coordinate squaring is not an endomorphism of sect233r1.
	require.False(t, newRcvr().Frobenius(NewGeneratorPoint(B233())).IsOnCurve())
}

func TestNormalize(t *testing.T) {
	for _, c := range testCurves() {
		c := c
		t.Run(c.Name(), func(t *testing.T) {
			// Doubling leaves a non-trivial Z coordinate.
			p := newRcvr().Double(NewGeneratorPoint(c))
			require.False(t, p.z.IsOne())

			n := newRcvr().Normalize(p)
			require.True(t, n.z.IsOne())
			require.True(t, n.Equal(p))
			require.True(t, n.IsOnCurve())

			require.True(t, newRcvr().Normalize(NewIdentityPoint(c)).IsIdentity())
		})
	}
}

func TestNormalizeBatch(t *testing.T) {
	c := K233()
	g := NewGeneratorPoint(c)

	points := make([]Point, 8)
	points[0].Identity(c)
	points[1].Set(g)
	points[2].Double(g)
	points[3].Identity(c)
	points[4].Add(&points[2], g)
	points[5].Double(&points[2])
	points[6].Set(randomPoint(t, c))
	points[7].Double(&points[4])

	expected := make([]Point, len(points))
	for i := range points {
		expected[i].Normalize(&points[i])
	}

	NormalizeBatch(points)
	for i := range points {
		require.True(t, points[i].Equal(&expected[i]), "point %d", i)
		require.True(t, points[i].z.IsOne() || points[i].IsIdentity(), "point %d affine", i)
		require.True(t, points[i].x.Equal(&expected[i].x), "point %d x", i)
		require.True(t, points[i].y.Equal(&expected[i].y), "point %d y", i)
	}

	NormalizeBatch(nil)

	onlyInf := make([]Point, 2)
	onlyInf[0].Identity(c)
	onlyInf[1].Identity(c)
	NormalizeBatch(onlyInf)
	require.True(t, onlyInf[0].IsIdentity())
}

func TestPointGuards(t *testing.T) {
	require.Panics(t, func() {
		var p Point
		p.IsIdentity()
	}, "uninitialized point")

	require.Panics(t, func() {
		newRcvr().Add(NewGeneratorPoint(K233()), NewGeneratorPoint(B233()))
	}, "mixed curve arithmetic")
}

func BenchmarkPoint(b *testing.B) {
	c := K233()
	g := NewGeneratorPoint(c)
	p := newRcvr().Double(g)
	s := NewScalar().MustRandomize(c)

	b.Run("Add", func(b *testing.B) {
		b.ReportAllocs()
		q := NewIdentityPoint(c)
		for i := 0; i < b.N; i++ {
			q.Add(p, g)
		}
	})
	b.Run("Double", func(b *testing.B) {
		b.ReportAllocs()
		q := NewIdentityPoint(c)
		for i := 0; i < b.N; i++ {
			q.Double(p)
		}
	})
	b.Run("ScalarMult", func(b *testing.B) {
		b.ReportAllocs()
		q := NewIdentityPoint(c)
		for i := 0; i < b.N; i++ {
			q.ScalarMult(s, g)
		}
	})
}
