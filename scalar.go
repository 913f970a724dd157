package sect233

import (
	"crypto/rand"
	"math/big"
)

// Scalar is an arbitrary-precision signed integer multiplier.  Scalars
// are deliberately NOT reduced modulo a curve order: multiplying by the
// order yields the point at infinity, and by the order plus one the
// original point.  The sign and the magnitude are tracked separately;
// bit queries always refer to the magnitude.  The zero value is a valid
// zero scalar.
type Scalar struct {
	neg bool
	v   big.Int // |s|
}

// Zero sets `s = 0` and returns `s`.
func (s *Scalar) Zero() *Scalar {
	s.neg = false
	s.v.SetUint64(0)
	return s
}

// Set sets `s = a` and returns `s`.
func (s *Scalar) Set(a *Scalar) *Scalar {
	s.neg = a.neg
	s.v.Set(&a.v)
	return s
}

// SetUint64 sets `s = u` and returns `s`.
func (s *Scalar) SetUint64(u uint64) *Scalar {
	s.neg = false
	s.v.SetUint64(u)
	return s
}

// SetBytes sets `s` to the non-negative integer with the big-endian
// encoding `src`, and returns `s`.
func (s *Scalar) SetBytes(src []byte) *Scalar {
	s.neg = false
	s.v.SetBytes(src)
	return s
}

// SetBigInt sets `s = x` and returns `s`.
func (s *Scalar) SetBigInt(x *big.Int) *Scalar {
	s.neg = x.Sign() < 0
	s.v.Abs(x)
	return s
}

// Negate sets `s = -a` and returns `s`.
func (s *Scalar) Negate(a *Scalar) *Scalar {
	neg := !a.neg && a.v.Sign() != 0
	s.v.Set(&a.v)
	s.neg = neg
	return s
}

// Sign returns -1, 0, or 1 depending on the sign of `s`.
func (s *Scalar) Sign() int {
	if s.v.Sign() == 0 {
		return 0
	}
	if s.neg {
		return -1
	}
	return 1
}

// IsZero returns true iff `s == 0`.
func (s *Scalar) IsZero() bool {
	return s.v.Sign() == 0
}

// BitLen returns the bit length of the magnitude of `s`.
func (s *Scalar) BitLen() int {
	return s.v.BitLen()
}

// Bit returns bit `i` of the magnitude of `s`.
func (s *Scalar) Bit(i int) uint {
	return s.v.Bit(i)
}

// BigInt returns `s` as a newly allocated big.Int.
func (s *Scalar) BigInt() *big.Int {
	z := new(big.Int).Set(&s.v)
	if s.neg {
		z.Neg(z)
	}
	return z
}

// Equal returns true iff `s == a`.
func (s *Scalar) Equal(a *Scalar) bool {
	return s.Sign() == a.Sign() && s.v.Cmp(&a.v) == 0
}

// Cmp returns -1, 0, or 1 depending on whether `s < a`, `s == a`, or
// `s > a`.
func (s *Scalar) Cmp(a *Scalar) int {
	sSign, aSign := s.Sign(), a.Sign()
	if sSign != aSign {
		if sSign < aSign {
			return -1
		}
		return 1
	}
	return s.v.Cmp(&a.v) * sSign
}

// String returns the decimal representation of `s`.
func (s *Scalar) String() string {
	return s.BigInt().String()
}

// MustRandomize sets `s` to a uniformly random scalar in `[0, order)`
// of `c` and returns `s`, or panics.
func (s *Scalar) MustRandomize(c *Curve) *Scalar {
	x, err := rand.Int(rand.Reader, c.order)
	if err != nil {
		panic("sect233: entropy source failure")
	}
	return s.SetBigInt(x)
}

// magnitude returns the magnitude of `s` for recoding.  The returned
// value MUST NOT be mutated.
func (s *Scalar) magnitude() *big.Int {
	return &s.v
}

// NewScalar returns a new zero Scalar.
func NewScalar() *Scalar {
	return &Scalar{}
}

// NewScalarFrom creates a new Scalar from another.
func NewScalarFrom(other *Scalar) *Scalar {
	return NewScalar().Set(other)
}

// NewScalarFromUint64 creates a new Scalar from a uint64.
func NewScalarFromUint64(u uint64) *Scalar {
	return NewScalar().SetUint64(u)
}

// NewScalarFromBigInt creates a new Scalar from a big.Int.
func NewScalarFromBigInt(x *big.Int) *Scalar {
	return NewScalar().SetBigInt(x)
}
