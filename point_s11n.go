package sect233

import (
	"errors"

	"gitlab.com/yawning/sect233-voi/internal/field"
)

const (
	// IdentityPointSize is the size of the SEC 1 encoding of the point
	// at infinity in bytes.
	IdentityPointSize = 1

	// CompressedPointSize is the size of a SEC 1 compressed point
	// encoding in bytes.
	CompressedPointSize = 1 + field.ElementSize

	// UncompressedPointSize is the size of a SEC 1 uncompressed point
	// encoding in bytes.
	UncompressedPointSize = 1 + 2*field.ElementSize

	prefixIdentity       = 0x00
	prefixCompressedEven = 0x02
	prefixCompressedOdd  = 0x03
	prefixUncompressed   = 0x04
)

var (
	errInvalidEncoding = errors.New("sect233: invalid point encoding")
	errNotOnCurve      = errors.New("sect233: point not on curve")
)

// UncompressedBytes returns the SEC 1 uncompressed encoding of `v`.  The
// point at infinity encodes as the single byte `0x00`.
func (v *Point) UncompressedBytes() []byte {
	assertPointsValid(v)

	if v.z.IsZero() {
		return []byte{prefixIdentity}
	}

	p := newRcvr().Normalize(v)

	dst := make([]byte, 0, UncompressedPointSize)
	dst = append(dst, prefixUncompressed)
	dst = append(dst, p.x.Bytes()...)
	dst = append(dst, p.y.Bytes()...)
	return dst
}

// CompressedBytes returns the SEC 1 compressed encoding of `v`.  The
// point at infinity encodes as the single byte `0x00`.
func (v *Point) CompressedBytes() []byte {
	assertPointsValid(v)

	if v.z.IsZero() {
		return []byte{prefixIdentity}
	}

	p := newRcvr().Normalize(v)

	// For binary curves the compression bit is the low bit of y/x, or
	// zero when x == 0.
	prefix := byte(prefixCompressedEven)
	if !p.x.IsZero() {
		var t field.Element
		t.Invert(&p.x)
		t.Multiply(&t, &p.y)
		prefix |= byte(t.Bit0())
	}

	dst := make([]byte, 0, CompressedPointSize)
	dst = append(dst, prefix)
	dst = append(dst, p.x.Bytes()...)
	return dst
}

// SetBytes sets `v` to the point on `c` encoded by the SEC 1 encoding
// `src` (identity, compressed, or uncompressed), and returns `v`, or an
// error if the encoding is not a valid point on the curve.
func (v *Point) SetBytes(c *Curve, src []byte) (*Point, error) {
	switch len(src) {
	case IdentityPointSize:
		if src[0] != prefixIdentity {
			return nil, errInvalidEncoding
		}
		return v.Identity(c), nil
	case CompressedPointSize:
		return v.SetCompressedBytes(c, src)
	case UncompressedPointSize:
		return v.SetUncompressedBytes(c, src)
	default:
		return nil, errInvalidEncoding
	}
}

// SetUncompressedBytes sets `v` to the point on `c` encoded by the SEC 1
// uncompressed encoding `src`, and returns `v`, or an error if the
// encoding is not a valid point on the curve.
func (v *Point) SetUncompressedBytes(c *Curve, src []byte) (*Point, error) {
	if len(src) != UncompressedPointSize || src[0] != prefixUncompressed {
		return nil, errInvalidEncoding
	}

	x, err := field.NewElementFromCanonicalBytes((*[field.ElementSize]byte)(src[1 : 1+field.ElementSize]))
	if err != nil {
		return nil, errInvalidEncoding
	}
	y, err := field.NewElementFromCanonicalBytes((*[field.ElementSize]byte)(src[1+field.ElementSize:]))
	if err != nil {
		return nil, errInvalidEncoding
	}

	v.curve = c
	v.x.Set(x)
	v.y.Set(y)
	v.z.One()
	v.isValid = true

	if !v.IsOnCurve() {
		v.isValid = false
		return nil, errNotOnCurve
	}

	return v, nil
}

// SetCompressedBytes sets `v` to the point on `c` encoded by the SEC 1
// compressed encoding `src`, and returns `v`, or an error if the
// encoding is not a valid point on the curve.
func (v *Point) SetCompressedBytes(c *Curve, src []byte) (*Point, error) {
	if len(src) != CompressedPointSize {
		return nil, errInvalidEncoding
	}
	if src[0] != prefixCompressedEven && src[0] != prefixCompressedOdd {
		return nil, errInvalidEncoding
	}
	yBit := uint64(src[0] & 1)

	x, err := field.NewElementFromCanonicalBytes((*[field.ElementSize]byte)(src[1:]))
	if err != nil {
		return nil, errInvalidEncoding
	}

	var y field.Element
	if x.IsZero() {
		// x == 0 forces y^2 = b; the compression bit must be clear.
		if yBit != 0 {
			return nil, errInvalidEncoding
		}
		y.Sqrt(c.b)
	} else {
		// Substituting y = xz turns the curve equation into
		// z^2 + z = x + a + b/x^2, solvable iff the trace of the
		// right hand side vanishes.
		var rhs, t field.Element
		t.Invert(x)
		t.Square(&t)
		rhs.Multiply(c.b, &t)
		rhs.Add(&rhs, x)
		rhs.Add(&rhs, c.a)
		if rhs.Trace() != 0 {
			return nil, errNotOnCurve
		}

		var z field.Element
		z.HalfTrace(&rhs)
		if z.Bit0() != yBit {
			// The other root is z + 1.
			var one field.Element
			z.Add(&z, one.One())
		}
		y.Multiply(x, &z)
	}

	v.curve = c
	v.x.Set(x)
	v.y.Set(&y)
	v.z.One()
	v.isValid = true

	return v, nil
}

// NewPointFromBytes creates a new Point from any of the SEC 1 point
// encodings.
func NewPointFromBytes(c *Curve, src []byte) (*Point, error) {
	return newRcvr().SetBytes(c, src)
}
