// Package field implements arithmetic over GF(2^233), the binary extension
// field with reduction polynomial `f(x) = x^233 + x^74 + 1`.
package field

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/bits"

	"gitlab.com/yawning/sect233-voi/internal/disalloweq"
)

// ElementSize is the size of a field element in bytes.
const ElementSize = 30

// Bits is the extension degree of the field.
const Bits = 233

// topMask masks the 41 meaningful bits of the most significant limb.
const topMask = (uint64(1) << 41) - 1

// modulus is `f(x)`, bits 0, 74 and 233 set.
var modulus = [4]uint64{1, 1 << 10, 0, 1 << 41}

// Element is a field element in polynomial basis, 4 little-endian 64-bit
// limbs, always fully reduced.  All arguments and receivers are allowed
// to alias.  The zero value is a valid zero element.
type Element struct {
	_ disalloweq.DisallowEqual
	l [4]uint64
}

// Zero sets `fe = 0` and returns `fe`.
func (fe *Element) Zero() *Element {
	for i := range fe.l {
		fe.l[i] = 0
	}
	return fe
}

// One sets `fe = 1` and returns `fe`.
func (fe *Element) One() *Element {
	fe.l = [4]uint64{1, 0, 0, 0}
	return fe
}

// Set sets `fe = a` and returns `fe`.
func (fe *Element) Set(a *Element) *Element {
	fe.l = a.l
	return fe
}

// Add sets `fe = a + b` and returns `fe`.  In characteristic 2 this is
// also subtraction.
func (fe *Element) Add(a, b *Element) *Element {
	fe.l[0] = a.l[0] ^ b.l[0]
	fe.l[1] = a.l[1] ^ b.l[1]
	fe.l[2] = a.l[2] ^ b.l[2]
	fe.l[3] = a.l[3] ^ b.l[3]
	return fe
}

// Multiply sets `fe = a * b` and returns `fe`.
func (fe *Element) Multiply(a, b *Element) *Element {
	// Left-to-right comb multiplication with 4-bit windows.  The table
	// holds `u(x) * b(x)` for every 4-bit polynomial u; entries have
	// degree at most 235 so they still fit in 4 limbs.
	var tab [16][4]uint64
	tab[1] = b.l
	for i := 2; i < 16; i += 2 {
		t := &tab[i/2]
		tab[i] = [4]uint64{
			t[0] << 1,
			t[1]<<1 | t[0]>>63,
			t[2]<<1 | t[1]>>63,
			t[3]<<1 | t[2]>>63,
		}
		tab[i+1] = [4]uint64{
			tab[i][0] ^ b.l[0],
			tab[i][1] ^ b.l[1],
			tab[i][2] ^ b.l[2],
			tab[i][3] ^ b.l[3],
		}
	}

	var z [8]uint64
	for k := 60; k >= 0; k -= 4 {
		z[7] = z[7]<<4 | z[6]>>60
		z[6] = z[6]<<4 | z[5]>>60
		z[5] = z[5]<<4 | z[4]>>60
		z[4] = z[4]<<4 | z[3]>>60
		z[3] = z[3]<<4 | z[2]>>60
		z[2] = z[2]<<4 | z[1]>>60
		z[1] = z[1]<<4 | z[0]>>60
		z[0] <<= 4

		for i := 0; i < 4; i++ {
			t := &tab[(a.l[i]>>uint(k))&0xf]
			z[i] ^= t[0]
			z[i+1] ^= t[1]
			z[i+2] ^= t[2]
			z[i+3] ^= t[3]
		}
	}

	reduce(&fe.l, &z)
	return fe
}

// squareSpread interleaves a zero bit after every bit of the index.
var squareSpread = func() (tab [256]uint16) {
	for i := range tab {
		var s uint16
		for b := 0; b < 8; b++ {
			if i&(1<<b) != 0 {
				s |= 1 << (2 * b)
			}
		}
		tab[i] = s
	}
	return
}()

func spread32(w uint32) uint64 {
	return uint64(squareSpread[byte(w)]) |
		uint64(squareSpread[byte(w>>8)])<<16 |
		uint64(squareSpread[byte(w>>16)])<<32 |
		uint64(squareSpread[byte(w>>24)])<<48
}

// Square sets `fe = a * a` and returns `fe`.  Squaring is linear in
// characteristic 2, so this is substantially cheaper than Multiply.
func (fe *Element) Square(a *Element) *Element {
	var z [8]uint64
	for i := 0; i < 4; i++ {
		w := a.l[i]
		z[2*i] = spread32(uint32(w))
		z[2*i+1] = spread32(uint32(w >> 32))
	}

	reduce(&fe.l, &z)
	return fe
}

// Pow2k sets `fe = a ^ (2^k)` and returns `fe`.  k MUST be non-zero.
func (fe *Element) Pow2k(a *Element, k uint) *Element {
	if k == 0 {
		// This could just set fe = a, but "don't do that".
		panic("internal/field: k out of bounds")
	}

	fe.Square(a)
	for i := uint(1); i < k; i++ {
		fe.Square(fe)
	}

	return fe
}

// Sqrt sets `fe = sqrt(a)` and returns `fe`.  Every element of a binary
// field has a unique square root, `a^(2^(m-1))`.
func (fe *Element) Sqrt(a *Element) *Element {
	return fe.Pow2k(a, Bits-1)
}

// Invert sets `fe = 1/a` and returns `fe`.  It panics if `a == 0`.
func (fe *Element) Invert(a *Element) *Element {
	if a.IsZero() {
		panic("internal/field: inversion of zero")
	}

	// Binary polynomial extended Euclidean algorithm, maintaining
	// `g1 * a = u (mod f)` and `g2 * a = v (mod f)`.  f is irreducible
	// so the loop always terminates with u = 1.
	u, v := a.l, modulus
	var g1, g2 [4]uint64
	g1[0] = 1

	for !limbsAreOne(&u) {
		j := degree(&u) - degree(&v)
		if j < 0 {
			u, v = v, u
			g1, g2 = g2, g1
			j = -j
		}
		xorShifted(&u, &v, uint(j))
		xorShifted(&g1, &g2, uint(j))
	}

	for degree(&g1) >= Bits {
		xorShifted(&g1, &modulus, uint(degree(&g1)-Bits))
	}

	fe.l = g1
	return fe
}

// Trace returns `Tr(fe)`, which is 0 or 1.
func (fe *Element) Trace() uint64 {
	var t, acc Element
	t.Set(fe)
	acc.Set(fe)
	for i := 1; i < Bits; i++ {
		t.Square(&t)
		acc.Add(&acc, &t)
	}

	// The trace lives in the prime subfield.
	return acc.l[0] & 1
}

// HalfTrace sets `fe` to the half-trace of `a` and returns `fe`.  For
// odd m the half-trace solves the quadratic `z^2 + z = a` whenever
// `Tr(a) == 0`; the other root is `fe + 1`.
func (fe *Element) HalfTrace(a *Element) *Element {
	var h, c Element
	c.Set(a)
	h.Set(a)
	for i := 0; i < (Bits-1)/2; i++ {
		h.Square(&h)
		h.Square(&h)
		h.Add(&h, &c)
	}

	return fe.Set(&h)
}

// Equal returns true iff `fe == a`.
func (fe *Element) Equal(a *Element) bool {
	return fe.l == a.l
}

// IsZero returns true iff `fe == 0`.
func (fe *Element) IsZero() bool {
	return fe.l[0]|fe.l[1]|fe.l[2]|fe.l[3] == 0
}

// IsOne returns true iff `fe == 1`.
func (fe *Element) IsOne() bool {
	return limbsAreOne(&fe.l)
}

// Bit0 returns the constant term of the polynomial, 0 or 1.
func (fe *Element) Bit0() uint64 {
	return fe.l[0] & 1
}

// SetCanonicalBytes sets `fe = src`, where `src` is a 30-byte big-endian
// encoding of `fe`, and returns `fe`.  If `src` is not a canonical
// encoding of `fe`, SetCanonicalBytes returns nil and an error, and the
// receiver is unchanged.
func (fe *Element) SetCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	var l [4]uint64
	l[3] = beUint48(src[0:6])
	l[2] = beUint64(src[6:14])
	l[1] = beUint64(src[14:22])
	l[0] = beUint64(src[22:30])

	if l[3]&^topMask != 0 {
		return nil, errors.New("internal/field: value out of range")
	}

	fe.l = l
	return fe, nil
}

// Bytes returns the canonical big-endian encoding of `fe`.
func (fe *Element) Bytes() []byte {
	// Blah blah blah outline blah escape analysis blah.
	var dst [ElementSize]byte
	return fe.getBytes(&dst)
}

func (fe *Element) getBytes(dst *[ElementSize]byte) []byte {
	bePutUint48(dst[0:6], fe.l[3])
	bePutUint64(dst[6:14], fe.l[2])
	bePutUint64(dst[14:22], fe.l[1])
	bePutUint64(dst[22:30], fe.l[0])

	return dst[:]
}

// String returns the big-endian hex representation of `fe`.
func (fe *Element) String() string {
	return hex.EncodeToString(fe.Bytes())
}

// MustRandomize randomizes and returns `fe`, or panics.
func (fe *Element) MustRandomize() *Element {
	var b [ElementSize]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("internal/field: entropy source failure")
	}
	b[0] &= 0x01 // 233 = 1 + 29*8

	if _, err := fe.SetCanonicalBytes(&b); err != nil {
		panic("internal/field: failed to set clamped bytes: " + err.Error())
	}
	return fe
}

// NewElement returns a new zero Element.
func NewElement() *Element {
	return &Element{}
}

// NewElementFrom creates a new Element from another.
func NewElementFrom(other *Element) *Element {
	return NewElement().Set(other)
}

// NewElementFromUint64 creates a new Element with `l0` as its low limb.
func NewElementFromUint64(l0 uint64) *Element {
	var fe Element
	fe.l[0] = l0
	return &fe
}

// NewElementFromCanonicalBytes creates a new Element from the canonical
// big-endian byte representation.
func NewElementFromCanonicalBytes(src *[ElementSize]byte) (*Element, error) {
	e, err := NewElement().SetCanonicalBytes(src)
	if err != nil {
		return nil, err
	}

	return e, nil
}

// reduce reduces the up-to-465-bit polynomial `c` modulo `f` into `dst`.
// A term `x^j` with `j >= 233` rewrites as `x^(j-159) + x^(j-233)`, so
// each limb above the modulus folds into two lower positions.
func reduce(dst *[4]uint64, c *[8]uint64) {
	for i := 7; i >= 4; i-- {
		t := c[i]
		c[i-4] ^= t << 23
		c[i-3] ^= (t >> 41) ^ (t << 33)
		c[i-2] ^= t >> 31
	}

	// Bits 233..255 of the top surviving limb.
	t := c[3] >> 41
	c[0] ^= t
	c[1] ^= t << 10

	dst[0] = c[0]
	dst[1] = c[1]
	dst[2] = c[2]
	dst[3] = c[3] & topMask
}

// degree returns the polynomial degree of `a`, or -1 if `a == 0`.
func degree(a *[4]uint64) int {
	for i := 3; i >= 0; i-- {
		if a[i] != 0 {
			return 64*i + bits.Len64(a[i]) - 1
		}
	}
	return -1
}

// xorShifted sets `dst ^= src << j`.
func xorShifted(dst, src *[4]uint64, j uint) {
	s, b := int(j/64), j%64
	if b == 0 {
		for i := 3; i >= s; i-- {
			dst[i] ^= src[i-s]
		}
		return
	}
	for i := 3; i >= s; i-- {
		v := src[i-s] << b
		if i-s > 0 {
			v |= src[i-s-1] >> (64 - b)
		}
		dst[i] ^= v
	}
}

func limbsAreOne(a *[4]uint64) bool {
	return a[0] == 1 && a[1]|a[2]|a[3] == 0
}

func beUint64(b []byte) uint64 {
	_ = b[7]
	return uint64(b[7]) | uint64(b[6])<<8 | uint64(b[5])<<16 | uint64(b[4])<<24 |
		uint64(b[3])<<32 | uint64(b[2])<<40 | uint64(b[1])<<48 | uint64(b[0])<<56
}

func beUint48(b []byte) uint64 {
	_ = b[5]
	return uint64(b[5]) | uint64(b[4])<<8 | uint64(b[3])<<16 |
		uint64(b[2])<<24 | uint64(b[1])<<32 | uint64(b[0])<<40
}

func bePutUint64(b []byte, v uint64) {
	_ = b[7]
	b[0] = byte(v >> 56)
	b[1] = byte(v >> 48)
	b[2] = byte(v >> 40)
	b[3] = byte(v >> 32)
	b[4] = byte(v >> 24)
	b[5] = byte(v >> 16)
	b[6] = byte(v >> 8)
	b[7] = byte(v)
}

func bePutUint48(b []byte, v uint64) {
	_ = b[5]
	b[0] = byte(v >> 40)
	b[1] = byte(v >> 32)
	b[2] = byte(v >> 24)
	b[3] = byte(v >> 16)
	b[4] = byte(v >> 8)
	b[5] = byte(v)
}
