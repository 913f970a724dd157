package sect233

import (
	"fmt"
	"math/bits"

	"gitlab.com/yawning/sect233-voi/internal/recode"
)

// Fixed-base scalar multiplication.  When the base point is known ahead
// of time and reused (a generator, a long-term public key), a table of
// multiples is built once and every subsequent multiplication walks the
// table instead of redoing the work.  Each strategy trades table size
// against evaluation cost through a different scalar encoding.

// Strategy selects a precomputation/evaluation algorithm pair.  The
// strategy is bound when the table is built; evaluation never branches
// on anything else, except for the Koblitz redirect of StrategyWindowNAF
// to the τ-adic walk.
type Strategy uint8

const (
	// StrategyBasic stores every power-of-two multiple, one per order
	// bit.  Evaluation is a bare add-per-set-bit scan with no doublings
	// at all; the table is linear in the order length.
	StrategyBasic Strategy = 1 + iota

	// StrategyYaoWindowed stores one point per base-2^w digit position
	// and groups additions by digit value (Yao's method).
	StrategyYaoWindowed

	// StrategyNAFWindowed recodes to a signed NAF first, regroups the
	// NAF digits into base-2^w windows, then applies Yao's method with
	// adds and subtracts.
	StrategyNAFWindowed

	// StrategySingleComb interleaves w fixed bit positions per round
	// (the Lim-Lee comb); one doubling and at most one addition per
	// round over a 2^w entry table.
	StrategySingleComb

	// StrategyDoubleComb runs two interleaved combs over the even and
	// odd halves of the scalar, halving the rounds at the price of a
	// doubled table.
	StrategyDoubleComb

	// StrategyWindowNAF stores one point per odd digit magnitude
	// 1..2^(w-1)-1 and walks a width-w NAF; on the Koblitz curve the
	// walk applies the Frobenius endomorphism in place of doubling,
	// driven by a width-w τ-adic NAF whose table holds the digit class
	// representatives α_u * P instead of the plain odd multiples.
	StrategyWindowNAF
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{
	StrategyBasic,
	StrategyYaoWindowed,
	StrategyNAFWindowed,
	StrategySingleComb,
	StrategyDoubleComb,
	StrategyWindowNAF,
}

// String returns the name of the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyBasic:
		return "Basic"
	case StrategyYaoWindowed:
		return "YaoWindowed"
	case StrategyNAFWindowed:
		return "NAFWindowed"
	case StrategySingleComb:
		return "SingleComb"
	case StrategyDoubleComb:
		return "DoubleComb"
	case StrategyWindowNAF:
		return "WindowNAF"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// TableSize returns the exact number of table entries the strategy
// precomputes for curve `c` with window width `w`.  Callers relying on
// the storage/speed tradeoff can budget storage from this alone.
func (s Strategy) TableSize(c *Curve, w uint) int {
	n := c.OrderBitLen()
	switch s {
	case StrategyBasic:
		return n
	case StrategyYaoWindowed:
		return ceilDiv(n, int(w))
	case StrategyNAFWindowed:
		return ceilDiv(n+1, int(w))
	case StrategySingleComb:
		return 1 << w
	case StrategyDoubleComb:
		return 2 << w
	case StrategyWindowNAF:
		return 1 << (w - 2)
	default:
		panic("sect233: invalid fixed-base strategy")
	}
}

// DefaultWindow is a reasonable window width for every windowed
// strategy.
const DefaultWindow = 4

// FixedBaseTable is a precomputed table of multiples of a single base
// point.  A completed table is immutable and safe for concurrent use by
// any number of ScalarMult calls.  The table must be rebuilt if the
// base point changes.
type FixedBaseTable struct {
	curve    *Curve
	strategy Strategy
	width    uint

	points []Point
}

// NewFixedBaseTable precomputes a fixed-base table for the point `p`
// using the given strategy and window width.  It panics on an invalid
// strategy or a window width outside [2, 7].
func NewFixedBaseTable(p *Point, strategy Strategy, w uint) *FixedBaseTable {
	assertPointsValid(p)
	if w < recode.MinWindow || w > recode.MaxWindow {
		panic("sect233: fixed-base window width out of range")
	}

	tbl := &FixedBaseTable{
		curve:    p.curve,
		strategy: strategy,
		width:    w,
		points:   make([]Point, strategy.TableSize(p.curve, w)),
	}

	switch strategy {
	case StrategyBasic:
		tbl.buildBasic(p)
	case StrategyYaoWindowed:
		tbl.buildDoublingLadder(p)
	case StrategyNAFWindowed:
		tbl.buildDoublingLadder(p)
	case StrategySingleComb:
		tbl.buildSingleComb(p)
	case StrategyDoubleComb:
		tbl.buildDoubleComb(p)
	case StrategyWindowNAF:
		if p.curve.IsKoblitz() {
			tbl.buildTauOddMultiples(p)
		} else {
			tbl.buildOddMultiples(p)
		}
	default:
		panic("sect233: invalid fixed-base strategy")
	}

	// Every stored point is normalized so that evaluation adds affine
	// entries.  Identity slots normalize to the canonical identity.
	NormalizeBatch(tbl.points)

	return tbl
}

// Curve returns the curve the table was built on.
func (tbl *FixedBaseTable) Curve() *Curve {
	return tbl.curve
}

// Strategy returns the strategy the table was built with.
func (tbl *FixedBaseTable) Strategy() Strategy {
	return tbl.strategy
}

// Width returns the window width the table was built with.
func (tbl *FixedBaseTable) Width() uint {
	return tbl.width
}

// Size returns the number of precomputed points.
func (tbl *FixedBaseTable) Size() int {
	return len(tbl.points)
}

// ScalarMult sets `v = k * P`, where `P` is the table's base point, and
// returns `v` in affine form.  The magnitude of `k` must not exceed the
// curve order's bit length; the sign of `k` negates the result.  A zero
// scalar returns the point at infinity without touching the table.
func (tbl *FixedBaseTable) ScalarMult(v *Point, k *Scalar) *Point {
	if k.IsZero() {
		return v.Identity(tbl.curve)
	}

	switch tbl.strategy {
	case StrategyBasic:
		tbl.evalBasic(v, k)
	case StrategyYaoWindowed:
		tbl.evalYaoWindowed(v, k)
	case StrategyNAFWindowed:
		tbl.evalNAFWindowed(v, k)
	case StrategySingleComb:
		tbl.evalSingleComb(v, k)
	case StrategyDoubleComb:
		tbl.evalDoubleComb(v, k)
	case StrategyWindowNAF:
		// The one runtime dispatch: a Koblitz curve trades every
		// doubling for a Frobenius application.
		if tbl.curve.IsKoblitz() {
			tbl.evalWindowTauNAF(v, k)
		} else {
			tbl.evalWindowNAF(v, k)
		}
	default:
		panic("sect233: invalid fixed-base strategy")
	}

	v.Normalize(v)
	if k.Sign() < 0 {
		v.Negate(v)
	}

	return v
}

//
// Precomputation.
//

// buildBasic fills `t[i] = 2^i * P` for every bit of the order.
func (tbl *FixedBaseTable) buildBasic(p *Point) {
	t := tbl.points
	t[0].Set(p)
	for i := 1; i < len(t); i++ {
		t[i].Double(&t[i-1])
	}
}

// buildDoublingLadder fills `t[i] = 2^(w*i) * P`, the per-digit bases
// shared by the Yao and windowed-NAF evaluators.
func (tbl *FixedBaseTable) buildDoublingLadder(p *Point) {
	t := tbl.points
	t[0].Set(p)
	for i := 1; i < len(t); i++ {
		t[i].Double(&t[i-1])
		for j := uint(1); j < tbl.width; j++ {
			t[i].Double(&t[i])
		}
	}
}

// buildSingleComb fills the full comb: `t[u]` for a window value `u` is
// the sum over set bits j of `2^(j*l) * P`, with `l` the round count.
func (tbl *FixedBaseTable) buildSingleComb(p *Point) {
	t := tbl.points
	l := ceilDiv(tbl.curve.OrderBitLen(), int(tbl.width))

	t[0].Identity(tbl.curve)
	t[1].Set(p)
	for j := uint(1); j < tbl.width; j++ {
		hi := 1 << j
		t[hi].Double(&t[hi/2])
		for i := 1; i < l; i++ {
			t[hi].Double(&t[hi])
		}
		for i := 1; i < hi; i++ {
			t[hi+i].Add(&t[i], &t[hi])
		}
	}
}

// buildDoubleComb fills two concatenated combs; the second holds the
// first's entries doubled `e = ceil(d/2)` times, covering the upper
// half of the interleaved bit columns.
func (tbl *FixedBaseTable) buildDoubleComb(p *Point) {
	t := tbl.points
	d := ceilDiv(tbl.curve.OrderBitLen(), int(tbl.width))
	e := ceilDiv(d, 2)
	half := 1 << tbl.width

	t[0].Identity(tbl.curve)
	t[1].Set(p)
	for j := uint(1); j < tbl.width; j++ {
		hi := 1 << j
		t[hi].Double(&t[hi/2])
		for i := 1; i < d; i++ {
			t[hi].Double(&t[hi])
		}
		for i := 1; i < hi; i++ {
			t[hi+i].Add(&t[i], &t[hi])
		}
	}

	t[half].Identity(tbl.curve)
	for j := 1; j < half; j++ {
		t[half+j].Double(&t[j])
		for i := 1; i < e; i++ {
			t[half+j].Double(&t[half+j])
		}
	}
}

// buildOddMultiples fills `t[i] = (2i+1) * P` for the plain windowed-NAF
// walk.
func (tbl *FixedBaseTable) buildOddMultiples(p *Point) {
	t := tbl.points
	t[0].Set(p)
	if len(t) > 1 {
		dbl := newRcvr().Double(p)
		for i := 1; i < len(t); i++ {
			t[i].Add(&t[i-1], dbl)
		}
	}
}

// buildTauOddMultiples fills `t[i] = α_(2i+1) * P` for the τ-adic walk,
// where `α_u = β_u + γ_u·τ` is the representative the recoder subtracts
// when it emits digit u.
func (tbl *FixedBaseTable) buildTauOddMultiples(p *Point) {
	t := tbl.points
	mu := tbl.curve.tauSign()
	fp := newRcvr().Frobenius(p)

	var bp, gp Point
	for i := range t {
		beta, gamma := recode.TauNafAlpha(mu, tbl.width, int8(2*i+1))
		mulSmall(&bp, p, int(beta))
		mulSmall(&gp, fp, int(gamma))
		t[i].Add(&bp, &gp)
	}
}

// mulSmall sets `v = n * p` for a small multiplier, and returns `v`.
func mulSmall(v *Point, p *Point, n int) *Point {
	neg := n < 0
	if neg {
		n = -n
	}

	v.Identity(p.curve)
	for i := bits.Len(uint(n)) - 1; i >= 0; i-- {
		v.Double(v)
		if n&(1<<i) != 0 {
			v.Add(v, p)
		}
	}
	if neg {
		v.Negate(v)
	}

	return v
}

//
// Evaluation.  All evaluators consume the magnitude of the scalar; the
// caller (ScalarMult) applies normalization and the sign.
//

// evalBasic scans the magnitude bits, adding the matching power-of-two
// multiple for each set bit.  The table already holds every doubling.
func (tbl *FixedBaseTable) evalBasic(v *Point, k *Scalar) {
	t := tbl.points

	v.Identity(tbl.curve)
	for i, bits := 0, k.BitLen(); i < bits; i++ {
		if k.Bit(i) != 0 {
			v.Add(v, &t[i])
		}
	}
}

// evalYaoWindowed groups additions by digit value: for each value from
// 2^w-1 down to 1, fold in every position holding that digit, then add
// the running sum once per level.
func (tbl *FixedBaseTable) evalYaoWindowed(v *Point, k *Scalar) {
	t := tbl.points
	w := tbl.width

	win := recode.Windowed(make([]uint8, 0, recode.WindowedLen(k.BitLen(), w)), k.magnitude(), w)

	a := newRcvr().Identity(tbl.curve)
	v.Identity(tbl.curve)
	for j := 1<<w - 1; j >= 1; j-- {
		for i, d := range win {
			if int(d) == j {
				a.Add(a, &t[i])
			}
		}
		v.Add(v, a)
	}
}

// evalNAFWindowed recodes to a plain NAF, regroups the signed digits
// into base-2^w windows, then runs Yao's method over the signed window
// values.
func (tbl *FixedBaseTable) evalNAFWindowed(v *Point, k *Scalar) {
	t := tbl.points
	w := int(tbl.width)

	naf := recode.Naf(make([]int8, 0, recode.NafLen(k.BitLen())), k.magnitude(), 2)
	l := len(naf)

	d := ceilDiv(l, w)
	win := make([]int16, d)
	for i := 0; i < d; i++ {
		var wv int16
		for j := w - 1; j >= 0; j-- {
			if i*w+j < l {
				wv = wv<<1 + int16(naf[i*w+j])
			}
		}
		win[i] = wv
	}

	// The largest window value a NAF can produce: alternating
	// 10101.../0101... patterns.
	var m int16
	if w%2 == 0 {
		m = int16((1<<(w+1) - 2) / 3)
	} else {
		m = int16((1<<(w+1) - 1) / 3)
	}

	a := newRcvr().Identity(tbl.curve)
	v.Identity(tbl.curve)
	for j := m; j >= 1; j-- {
		for i := 0; i < d; i++ {
			if win[i] == j {
				a.Add(a, &t[i])
			}
			if win[i] == -j {
				a.Subtract(a, &t[i])
			}
		}
		v.Add(v, a)
	}
}

// evalSingleComb assembles one w-bit window per round by sampling bit
// columns `l` apart, doubling once per round.
func (tbl *FixedBaseTable) evalSingleComb(v *Point, k *Scalar) {
	t := tbl.points
	w := int(tbl.width)
	l := ceilDiv(tbl.curve.OrderBitLen(), w)
	n0 := k.BitLen()

	assemble := func(hi int) int {
		var wv int
		p1 := hi
		for j := w - 1; j >= 0; j-- {
			wv <<= 1
			if p1 < n0 && k.Bit(p1) != 0 {
				wv |= 1
			}
			p1 -= l
		}
		return wv
	}

	p0 := w*l - 1
	wv := assemble(p0)
	p0--
	v.Set(&t[wv])

	for i := l - 2; i >= 0; i-- {
		v.Double(v)

		wv = assemble(p0)
		p0--
		if wv > 0 {
			v.Add(v, &t[wv])
		}
	}
}

// evalDoubleComb assembles two w-bit windows per round from the two
// interleaved column sequences, and adds one entry of each comb.
func (tbl *FixedBaseTable) evalDoubleComb(v *Point, k *Scalar) {
	t := tbl.points
	w := int(tbl.width)
	d := ceilDiv(tbl.curve.OrderBitLen(), w)
	e := ceilDiv(d, 2)
	half := 1 << tbl.width
	n0 := k.BitLen()

	v.Identity(tbl.curve)

	p1 := (e - 1) + (w-1)*d
	for i := e - 1; i >= 0; i-- {
		v.Double(v)

		var w0, w1 int
		p0 := p1
		for j := w - 1; j >= 0; j-- {
			w0 <<= 1
			if p0 < n0 && k.Bit(p0) != 0 {
				w0 |= 1
			}
			p0 -= d
		}

		p0 = p1 + e
		p1--
		for j := w - 1; j >= 0; j-- {
			w1 <<= 1
			if i+e < d && p0 < n0 && k.Bit(p0) != 0 {
				w1 |= 1
			}
			p0 -= d
		}

		v.Add(v, &t[w0])
		v.Add(v, &t[half+w1])
	}
}

// evalWindowNAF walks a width-w NAF MSB-first over the odd-multiples
// table: double always, add on a positive digit, subtract on a negative
// one.
func (tbl *FixedBaseTable) evalWindowNAF(v *Point, k *Scalar) {
	t := tbl.points

	naf := recode.Naf(make([]int8, 0, recode.NafLen(k.BitLen())), k.magnitude(), tbl.width)
	l := len(naf)

	// The most significant NAF digit of a nonzero magnitude is
	// positive.
	v.Set(&t[naf[l-1]/2])

	for i := l - 2; i >= 0; i-- {
		v.Double(v)

		if d := naf[i]; d > 0 {
			v.Add(v, &t[d/2])
		} else if d < 0 {
			v.Subtract(v, &t[-d/2])
		}
	}
}

// evalWindowTauNAF is the Koblitz variant of evalWindowNAF: the digits
// come from the width-w τ-adic NAF and the per-position shift is the
// Frobenius endomorphism rather than a doubling.
func (tbl *FixedBaseTable) evalWindowTauNAF(v *Point, k *Scalar) {
	t := tbl.points

	tnaf := recode.TauNaf(make([]int8, 0, recode.TauNafLen(k.BitLen(), tbl.width)),
		k.magnitude(), tbl.curve.tauSign(), tbl.width)
	l := len(tnaf)

	if d := tnaf[l-1]; d > 0 {
		v.Set(&t[d/2])
	} else {
		v.Negate(&t[-d/2])
	}

	for i := l - 2; i >= 0; i-- {
		v.Frobenius(v)

		if d := tnaf[i]; d > 0 {
			v.Add(v, &t[d/2])
		} else if d < 0 {
			v.Subtract(v, &t[-d/2])
		}
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
