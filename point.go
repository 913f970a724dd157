package sect233

import (
	"gitlab.com/yawning/sect233-voi/internal/disalloweq"
	"gitlab.com/yawning/sect233-voi/internal/field"
)

// Point represents a point on one of the supported binary curves.  The
// internal representation is López-Dahab projective, `x = X/Z`,
// `y = Y/Z^2`, with the point at infinity encoded as `Z == 0`.  All
// arguments and receivers are allowed to alias.  The zero value is NOT
// valid, and may only be used as a receiver.
type Point struct {
	_ disalloweq.DisallowEqual

	curve   *Curve
	x, y, z field.Element

	isValid bool
}

// Identity sets `v` to the point at infinity of `c`, and returns `v`.
func (v *Point) Identity(c *Curve) *Point {
	v.curve = c
	v.x.One()
	v.y.Zero()
	v.z.Zero()

	v.isValid = true
	return v
}

// Generator sets `v` to the canonical generator of `c`, and returns `v`.
func (v *Point) Generator(c *Curve) *Point {
	v.curve = c
	v.x.Set(c.gx)
	v.y.Set(c.gy)
	v.z.One()

	v.isValid = true
	return v
}

// Set sets `v = p`, and returns `v`.
func (v *Point) Set(p *Point) *Point {
	assertPointsValid(p)

	v.curve = p.curve
	v.x.Set(&p.x)
	v.y.Set(&p.y)
	v.z.Set(&p.z)
	v.isValid = true

	return v
}

// IsIdentity returns true iff `v` is the point at infinity.
func (v *Point) IsIdentity() bool {
	assertPointsValid(v)

	return v.z.IsZero()
}

// Negate sets `v = -p`, and returns `v`.  Affine negation is
// `-(x, y) = (x, x + y)`, which projectively is `Y' = XZ + Y`.
func (v *Point) Negate(p *Point) *Point {
	assertPointsValid(p)

	var t field.Element
	t.Multiply(&p.x, &p.z)

	v.curve = p.curve
	v.x.Set(&p.x)
	v.y.Add(&p.y, &t)
	v.z.Set(&p.z)
	v.isValid = true

	return v
}

// Double sets `v = p + p`, and returns `v`.  Calling `Add(p, p)` will
// also return correct results, however this method is faster.
func (v *Point) Double(p *Point) *Point {
	assertPointsValid(p)

	v.doubleLD(p)

	v.curve = p.curve
	v.isValid = true
	return v
}

// Add sets `v = p + q`, and returns `v`.
func (v *Point) Add(p, q *Point) *Point {
	assertPointsValid(p, q)
	assertSameCurve(p, q)

	v.addLD(p, q)

	v.curve = p.curve
	v.isValid = true
	return v
}

// Subtract sets `v = p - q`, and returns `v`.
func (v *Point) Subtract(p, q *Point) *Point {
	assertPointsValid(p, q)
	assertSameCurve(p, q)

	negQ := newRcvr().Negate(q)
	return v.Add(p, negQ)
}

// Frobenius sets `v = τ(p)`, squaring both affine coordinates, and
// returns `v`.  This is only a curve endomorphism for the Koblitz curve.
func (v *Point) Frobenius(p *Point) *Point {
	assertPointsValid(p)

	v.curve = p.curve
	v.x.Square(&p.x)
	v.y.Square(&p.y)
	v.z.Square(&p.z)
	v.isValid = true

	return v
}

// Equal returns true iff `v == p` as curve points, regardless of the
// projective representation.
func (v *Point) Equal(p *Point) bool {
	assertPointsValid(v, p)
	assertSameCurve(v, p)

	vInf, pInf := v.z.IsZero(), p.z.IsZero()
	if vInf || pInf {
		return vInf == pInf
	}

	// x: X1 Z2 == X2 Z1, y: Y1 Z2^2 == Y2 Z1^2.
	var l, r, z1s, z2s field.Element
	l.Multiply(&v.x, &p.z)
	r.Multiply(&p.x, &v.z)
	if !l.Equal(&r) {
		return false
	}

	z1s.Square(&v.z)
	z2s.Square(&p.z)
	l.Multiply(&v.y, &z2s)
	r.Multiply(&p.y, &z1s)
	return l.Equal(&r)
}

// IsOnCurve returns true iff `v` satisfies the curve equation.  The
// point at infinity is considered on the curve.
func (v *Point) IsOnCurve() bool {
	assertPointsValid(v)

	if v.z.IsZero() {
		return true
	}

	// Homogenized: Y^2 + XYZ = X^3 Z + a X^2 Z^2 + b Z^4.
	var lhs, rhs, t, z2 field.Element
	lhs.Square(&v.y)
	t.Multiply(&v.x, &v.y)
	t.Multiply(&t, &v.z)
	lhs.Add(&lhs, &t)

	z2.Square(&v.z)
	rhs.Square(&v.x)
	rhs.Multiply(&rhs, &v.x)
	rhs.Multiply(&rhs, &v.z)
	t.Square(&v.x)
	t.Multiply(&t, v.curve.a)
	t.Multiply(&t, &z2)
	rhs.Add(&rhs, &t)
	t.Square(&z2)
	t.Multiply(&t, v.curve.b)
	rhs.Add(&rhs, &t)

	return lhs.Equal(&rhs)
}

// Normalize sets `v` to the affine representation of `p` (`Z == 1`, or
// the canonical identity), and returns `v`.
func (v *Point) Normalize(p *Point) *Point {
	assertPointsValid(p)

	if p.z.IsZero() {
		return v.Identity(p.curve)
	}

	var zi, zi2 field.Element
	zi.Invert(&p.z)
	zi2.Square(&zi)

	v.curve = p.curve
	v.x.Multiply(&p.x, &zi)
	v.y.Multiply(&p.y, &zi2)
	v.z.One()
	v.isValid = true

	return v
}

// NormalizeBatch normalizes every point of `points` in place, sharing a
// single field inversion across the batch.  The output is identical to
// calling Normalize on each point individually.
func NormalizeBatch(points []Point) {
	// Montgomery's trick: accumulate prefix products of the Z
	// coordinates, invert the total once, then peel the individual
	// inverses off in reverse order.
	prefixes := make([]field.Element, len(points))
	live := make([]int, 0, len(points))

	var acc field.Element
	acc.One()
	for i := range points {
		p := &points[i]
		assertPointsValid(p)
		if p.z.IsZero() {
			p.Identity(p.curve)
			continue
		}
		prefixes[i].Set(&acc)
		acc.Multiply(&acc, &p.z)
		live = append(live, i)
	}
	if len(live) == 0 {
		return
	}

	var inv, zi, z field.Element
	inv.Invert(&acc)
	for n := len(live) - 1; n >= 0; n-- {
		p := &points[live[n]]

		z.Set(&p.z)
		zi.Multiply(&inv, &prefixes[live[n]])
		inv.Multiply(&inv, &z)

		p.x.Multiply(&p.x, &zi)
		zi.Square(&zi)
		p.y.Multiply(&p.y, &zi)
		p.z.One()
	}
}

// doubleLD is the López-Dahab doubling
//
//	Z3 = X1^2 Z1^2
//	X3 = X1^4 + b Z1^4
//	Y3 = b Z1^4 Z3 + X3 (a Z3 + Y1^2 + b Z1^4)
//
// The formula maps the point at infinity to itself, and sends the
// order-2 point (X = 0) to infinity, so no exceptional branches are
// needed.
func (v *Point) doubleLD(p *Point) {
	c := p.curve

	var x1s, z1s, z1q, bz4, t, x3, y3, z3 field.Element
	x1s.Square(&p.x)
	z1s.Square(&p.z)
	z3.Multiply(&x1s, &z1s)

	z1q.Square(&z1s)
	bz4.Multiply(c.b, &z1q)
	x3.Square(&x1s)
	x3.Add(&x3, &bz4)

	t.Multiply(c.a, &z3)
	y3.Square(&p.y)
	t.Add(&t, &y3)
	t.Add(&t, &bz4)
	t.Multiply(&t, &x3)
	y3.Multiply(&bz4, &z3)
	y3.Add(&y3, &t)

	v.x.Set(&x3)
	v.y.Set(&y3)
	v.z.Set(&z3)
}

// addLD is the general López-Dahab addition, derived by clearing
// denominators in the affine chord formula with `Z3 = (B Z1 Z2)^2`:
//
//	B  = X1 Z2 + X2 Z1
//	A  = Y1 Z2^2 + Y2 Z1^2
//	C  = B Z1 Z2
//	X3 = A^2 + C (A + B^2) + a C^2
//	Y3 = C^2 (A X1 B Z2 + X3 + Y1 B^2 Z2^2) + C (A X3)
//
// Exceptional inputs (either operand at infinity, P == Q, P == -Q) are
// dispatched explicitly beforehand.
func (v *Point) addLD(p, q *Point) {
	if p.z.IsZero() {
		v.Set(q)
		return
	}
	if q.z.IsZero() {
		v.Set(p)
		return
	}

	c := p.curve

	var a, b, z1s, z2s, t, u field.Element
	z1s.Square(&p.z)
	z2s.Square(&q.z)

	b.Multiply(&p.x, &q.z)
	t.Multiply(&q.x, &p.z)
	b.Add(&b, &t)

	a.Multiply(&p.y, &z2s)
	t.Multiply(&q.y, &z1s)
	a.Add(&a, &t)

	if b.IsZero() {
		if a.IsZero() {
			// Same point; fall through to doubling.
			v.doubleLD(p)
			return
		}
		v.Identity(c)
		return
	}

	var cc, z3, bsq, x3, y3 field.Element
	cc.Multiply(&b, &p.z)
	cc.Multiply(&cc, &q.z)
	z3.Square(&cc)
	bsq.Square(&b)

	// X3
	x3.Square(&a)
	t.Add(&a, &bsq)
	t.Multiply(&t, &cc)
	x3.Add(&x3, &t)
	t.Multiply(c.a, &z3)
	x3.Add(&x3, &t)

	// Y3
	t.Multiply(&a, &p.x)
	t.Multiply(&t, &b)
	t.Multiply(&t, &q.z)
	u.Multiply(&p.y, &bsq)
	u.Multiply(&u, &z2s)
	t.Add(&t, &u)
	t.Add(&t, &x3)
	y3.Multiply(&t, &z3)
	t.Multiply(&a, &x3)
	t.Multiply(&t, &cc)
	y3.Add(&y3, &t)

	v.x.Set(&x3)
	v.y.Set(&y3)
	v.z.Set(&z3)
}

// ScalarMult sets `v = k * p` using a generic double-and-add ladder
// without precomputation, and returns `v` in affine form.
func (v *Point) ScalarMult(k *Scalar, p *Point) *Point {
	assertPointsValid(p)

	q := newRcvr().Identity(p.curve)
	for i := k.BitLen() - 1; i >= 0; i-- {
		q.Double(q)
		if k.Bit(i) != 0 {
			q.Add(q, p)
		}
	}
	q.Normalize(q)
	if k.Sign() < 0 {
		q.Negate(q)
	}

	return v.Set(q)
}

// NewIdentityPoint returns a new Point set to the point at infinity of `c`.
func NewIdentityPoint(c *Curve) *Point {
	return newRcvr().Identity(c)
}

// NewGeneratorPoint returns a new Point set to the canonical generator of `c`.
func NewGeneratorPoint(c *Curve) *Point {
	return newRcvr().Generator(c)
}

// NewPointFrom creates a new Point from another.
func NewPointFrom(p *Point) *Point {
	assertPointsValid(p)

	return newRcvr().Set(p)
}

// assertPointsValid ensures that the points have been initialized.
func assertPointsValid(points ...*Point) {
	for _, p := range points {
		if !p.isValid {
			panic("sect233: use of uninitialized Point")
		}
	}
}

// assertSameCurve ensures that mixed-curve arguments are rejected.
func assertSameCurve(points ...*Point) {
	for _, p := range points[1:] {
		if p.curve != points[0].curve {
			panic("sect233: mixed curve arithmetic")
		}
	}
}

func newRcvr() *Point {
	// This is explicitly for nicely creating receivers.
	return &Point{}
}
