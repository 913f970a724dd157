// Package sect233 implements the 233-bit binary elliptic curves sect233k1
// (NIST K-233) and sect233r1 (NIST B-233), with a family of fixed-base
// scalar multiplication strategies built on precomputed tables.
//
// All routines are variable-time.  Do not use this package when the
// scalar is a secret whose timing leakage matters.
package sect233

import (
	"math/big"

	"gitlab.com/yawning/sect233-voi/internal/field"
	"gitlab.com/yawning/sect233-voi/internal/helpers"
)

// Curve describes one of the supported binary curves
// `y^2 + xy = x^3 + ax^2 + b` over GF(2^233), along with the subgroup
// order of its canonical generator.  Curve values are immutable; use the
// K233 and B233 accessors.
type Curve struct {
	name string

	a, b   *field.Element
	gx, gy *field.Element
	order  *big.Int

	cofactor uint64

	// kbltz marks a curve with an efficient Frobenius endomorphism.
	// aIsZero selects the sign of τ (μ = -1 iff a == 0).
	kbltz   bool
	aIsZero bool
}

var (
	k233 = &Curve{
		name:     "sect233k1",
		a:        field.NewElement(),
		b:        field.NewElementFromUint64(1),
		gx:       mustElementFromHex("017232ba853a7e731af129f22ff4149563a419c26bf50a4c9d6eefad6126"),
		gy:       mustElementFromHex("01db537dece819b7f70f555a67c427a8cd9bf18aeb9b56e0c11056fae6a3"),
		order:    mustBigFromHex("8000000000000000000000000000069d5bb915bcd46efb1ad5f173abdf"),
		cofactor: 4,
		kbltz:    true,
		aIsZero:  true,
	}

	b233 = &Curve{
		name:     "sect233r1",
		a:        field.NewElementFromUint64(1),
		b:        mustElementFromHex("0066647ede6c332c7f8c0923bb58213b333b20e9ce4281fe115f7d8f90ad"),
		gx:       mustElementFromHex("00fac9dfcbac8313bb2139f1bb755fef65bc391f8b36f8f8eb7371fd558b"),
		gy:       mustElementFromHex("01006a08a41903350678e58528bebf8a0beff867a7ca36716f7e01f81052"),
		order:    mustBigFromHex("1000000000000000000000000000013e974e72f8a6922031d2603cfe0d7"),
		cofactor: 2,
	}
)

// K233 returns the sect233k1 (Koblitz) curve.
func K233() *Curve {
	return k233
}

// B233 returns the sect233r1 (random) curve.
func B233() *Curve {
	return b233
}

// Name returns the SEC 2 name of the curve.
func (c *Curve) Name() string {
	return c.name
}

// Order returns a copy of the order of the subgroup generated by the
// canonical generator.
func (c *Curve) Order() *big.Int {
	return new(big.Int).Set(c.order)
}

// OrderBitLen returns the bit length of the subgroup order.
func (c *Curve) OrderBitLen() int {
	return c.order.BitLen()
}

// Cofactor returns the curve cofactor.
func (c *Curve) Cofactor() uint64 {
	return c.cofactor
}

// IsKoblitz returns true iff the curve supports the efficient Frobenius
// endomorphism, enabling the τ-adic fixed-base walk.
func (c *Curve) IsKoblitz() bool {
	return c.kbltz
}

// tauSign returns μ, the sign in the Frobenius relation `τ^2 = μτ - 2`.
func (c *Curve) tauSign() int8 {
	if c.aIsZero {
		return -1
	}
	return 1
}

func mustElementFromHex(s string) *field.Element {
	b := helpers.MustBytesFromHex(s)
	if len(b) != field.ElementSize {
		panic("sect233: invalid curve constant length")
	}
	fe, err := field.NewElementFromCanonicalBytes((*[field.ElementSize]byte)(b))
	if err != nil {
		panic("sect233: invalid curve constant: " + err.Error())
	}
	return fe
}

func mustBigFromHex(s string) *big.Int {
	z, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("sect233: invalid curve order constant")
	}
	return z
}
