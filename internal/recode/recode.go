// Package recode converts integer scalars into the signed digit sequences
// consumed by the table-driven scalar multiplication routines.
//
// All recoders operate on the magnitude of the scalar and emit digits
// least-significant first.  The digit shape is shared: the evaluators do
// not care which scheme produced a sequence, only the producers differ.
package recode

import "math/big"

// MinWindow and MaxWindow bound the supported window widths.  The upper
// bound keeps every digit (and the NAF regrouping performed by the
// windowed-NAF evaluator) inside an int8.
const (
	MinWindow = 2
	MaxWindow = 7
)

// NafLen returns the worst-case digit count of a width-w NAF of a
// `bits`-bit scalar.  Recoding can carry into one guard digit.
func NafLen(bits int) int {
	return bits + 1
}

// WindowedLen returns the digit count of the base-2^w decomposition of a
// `bits`-bit scalar.
func WindowedLen(bits int, w uint) int {
	return (bits + int(w) - 1) / int(w)
}

// TauNafLen returns the worst-case digit count of a width-w τ-NAF of a
// `bits`-bit scalar.  The expansion starts from (k, 0) without partial
// reduction, so it is roughly twice the scalar length plus a small tail
// that depends on the window.
func TauNafLen(bits int, w uint) int {
	return 2*bits + 2*int(w) + 8
}

// Naf returns the width-w non-adjacent form of `|k|`, appended to
// `dst[:0]`.  Digits are odd, bounded by `2^(w-1)` in absolute value,
// and any w consecutive digits contain at most one nonzero.  The most
// significant digit of a nonzero scalar is always positive.
func Naf(dst []int8, k *big.Int, w uint) []int8 {
	checkWindow(w)

	digits := dst[:0]
	n := new(big.Int).Abs(k)
	var (
		tmp  big.Int
		mask = big.NewInt(int64(1)<<w - 1)
		half = int64(1) << (w - 1)
	)
	for n.Sign() > 0 {
		var d int64
		if n.Bit(0) == 1 {
			d = tmp.And(n, mask).Int64()
			if d >= half {
				d -= int64(1) << w
			}
			subInt64(n, d, &tmp)
		}
		digits = append(digits, int8(d))
		n.Rsh(n, 1)
	}

	return digits
}

// Windowed returns the base-2^w digits of `|k|`, appended to `dst[:0]`.
func Windowed(dst []uint8, k *big.Int, w uint) []uint8 {
	checkWindow(w)

	digits := dst[:0]
	n := new(big.Int).Abs(k)
	for pos := 0; pos < n.BitLen(); pos += int(w) {
		var d uint8
		for j := int(w) - 1; j >= 0; j-- {
			d = d<<1 | uint8(n.Bit(pos+j))
		}
		digits = append(digits, d)
	}

	return digits
}

// TauNaf returns the width-w τ-adic NAF of `|k|`, appended to `dst[:0]`.
// The expansion is over Z[τ] with `τ^2 = μτ - 2` and `mu = ±1`.  A digit
// u stands for the minimal-norm class representative `α_u = β_u + γ_u·τ`
// (see TauNafAlpha), and `sum(α_(d_i) * τ^i) == |k|` exactly in Z[τ],
// for every curve point and every scalar.  Digits are odd and bounded by
// `2^(w-1)` in absolute value; a nonzero digit is followed by at least
// w-1 zeros.
func TauNaf(dst []int8, k *big.Int, mu int8, w uint) []int8 {
	checkWindow(w)
	if mu != 1 && mu != -1 {
		panic("recode: tau sign out of range")
	}

	digits := dst[:0]
	r0 := new(big.Int).Abs(k)
	r1 := new(big.Int)
	var (
		tmp, h big.Int
		tw     = big.NewInt(tauModTw(mu, w))
		mask   = big.NewInt(int64(1)<<w - 1)
		pow    = int64(1) << w
		half   = pow >> 1
	)
	for r0.Sign() != 0 || r1.Sign() != 0 {
		var d int64
		if r0.Bit(0) == 1 {
			// The class of r0 + r1τ modulo τ^w, as the signed
			// residue of r0 + r1*t_w modulo 2^w.
			tmp.Mul(r1, tw)
			tmp.Add(&tmp, r0)
			d = tmp.And(&tmp, mask).Int64()
			if d >= half {
				d -= pow
			}

			// Subtract α_d rather than the bare integer d: the
			// remainder is then divisible by τ^w, and the bounded
			// representative norm forces the expansion to
			// terminate for every width.
			beta, gamma := TauNafAlpha(mu, w, int8(absInt64(d)))
			if d < 0 {
				beta, gamma = -beta, -gamma
			}
			subInt64(r0, int64(beta), &tmp)
			subInt64(r1, int64(gamma), &tmp)
		}
		digits = append(digits, int8(d))

		// Divide r0 + r1τ by τ: since 2 = μτ - τ^2,
		// (r0 + r1τ)/τ = (r1 + μ*r0/2) - (r0/2)τ.
		h.Rsh(r0, 1)
		if mu == 1 {
			r0.Add(r1, &h)
		} else {
			r0.Sub(r1, &h)
		}
		r1.Neg(&h)
	}

	return digits
}

// tnafAlphaNeg and tnafAlphaPos hold, per window width, the
// minimal-norm representatives `α_u = β_u + γ_u·τ` of the odd residue
// classes u mod τ^w, indexed by u/2, for μ = -1 and μ = +1.  The two
// sets are conjugate: negating γ maps one onto the other.  Norms are
// bounded by (4/7)·2^w, which is what makes the expansion in TauNaf
// shrink.
var tnafAlphaNeg = [MaxWindow + 1][][2]int8{
	2: {{1, 0}},
	3: {{1, 0}, {1, 1}},
	4: {{1, 0}, {-3, -1}, {-1, -1}, {1, -1}},
	5: {
		{1, 0}, {-3, -1}, {-1, -1}, {1, -1},
		{-3, -2}, {-1, -2}, {1, -2}, {1, 3},
	},
	6: {
		{1, 0}, {3, 0}, {5, 0}, {-5, -2},
		{-3, -2}, {-1, -2}, {1, -2}, {1, 3},
		{3, 3}, {5, 3}, {-3, -4}, {-3, 1},
		{-1, 1}, {1, 1}, {3, 1}, {5, 1},
	},
	7: {
		{1, 0}, {3, 0}, {5, 0}, {7, 0},
		{-5, 3}, {-3, 3}, {-1, 3}, {1, 3},
		{3, 3}, {5, 3}, {-3, -4}, {-1, -4},
		{1, -4}, {3, -4}, {1, 6}, {-7, -1},
		{-5, -1}, {-3, -1}, {-1, -1}, {1, -1},
		{3, -1}, {5, -1}, {7, -1}, {-5, 2},
		{-3, 2}, {-1, 2}, {1, 2}, {3, 2},
		{5, 2}, {7, 2}, {-1, -5}, {1, -5},
	},
}

var tnafAlphaPos = [MaxWindow + 1][][2]int8{
	2: {{1, 0}},
	3: {{1, 0}, {1, -1}},
	4: {{1, 0}, {-3, 1}, {-1, 1}, {1, 1}},
	5: {
		{1, 0}, {-3, 1}, {-1, 1}, {1, 1},
		{-3, 2}, {-1, 2}, {1, 2}, {1, -3},
	},
	6: {
		{1, 0}, {3, 0}, {5, 0}, {-5, 2},
		{-3, 2}, {-1, 2}, {1, 2}, {1, -3},
		{3, -3}, {5, -3}, {-3, 4}, {-3, -1},
		{-1, -1}, {1, -1}, {3, -1}, {5, -1},
	},
	7: {
		{1, 0}, {3, 0}, {5, 0}, {7, 0},
		{-5, -3}, {-3, -3}, {-1, -3}, {1, -3},
		{3, -3}, {5, -3}, {-3, 4}, {-1, 4},
		{1, 4}, {3, 4}, {1, -6}, {-7, 1},
		{-5, 1}, {-3, 1}, {-1, 1}, {1, 1},
		{3, 1}, {5, 1}, {7, 1}, {-5, -2},
		{-3, -2}, {-1, -2}, {1, -2}, {3, -2},
		{5, -2}, {7, -2}, {-1, 5}, {1, 5},
	},
}

// TauNafAlpha returns (β, γ) such that `α_u = β + γ·τ` is the
// representative TauNaf subtracts for digit u.  A table walk driven by
// TauNaf digits must therefore precompute `α_u * P`, not the plain odd
// multiple `u * P`.  u must be odd, positive, and below `2^(w-1)`.
func TauNafAlpha(mu int8, w uint, u int8) (int8, int8) {
	checkWindow(w)
	if mu != 1 && mu != -1 {
		panic("recode: tau sign out of range")
	}
	if u < 1 || u&1 == 0 || int(u) >= 1<<(w-1) {
		panic("recode: tau digit out of range")
	}

	var p [2]int8
	if mu == 1 {
		p = tnafAlphaPos[w][u/2]
	} else {
		p = tnafAlphaNeg[w][u/2]
	}
	return p[0], p[1]
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// tauModTw returns t_w, the image of τ in Z[τ]/(τ^w) ≅ Z/2^w, via the
// Lucas sequence U_0 = 0, U_1 = 1, U_{i+1} = μU_i - 2U_{i-1}:
//
//	t_w = 2 * U_{w-1} * U_w^{-1} mod 2^w
//
// U_w is odd for all w >= 1, and t_w is always even.
func tauModTw(mu int8, w uint) int64 {
	u0, u1 := int64(0), int64(1)
	for i := uint(1); i < w; i++ {
		u0, u1 = u1, int64(mu)*u1-2*u0
	}

	pow := big.NewInt(int64(1) << w)
	inv := new(big.Int).ModInverse(new(big.Int).Mod(big.NewInt(u1), pow), pow)
	t := inv.Mul(inv, big.NewInt(2*u0))
	t.Mod(t, pow)

	return t.Int64()
}

// subInt64 sets `n -= d` using `tmp` as scratch.
func subInt64(n *big.Int, d int64, tmp *big.Int) {
	if d >= 0 {
		n.Sub(n, tmp.SetInt64(d))
	} else {
		n.Add(n, tmp.SetInt64(-d))
	}
}

func checkWindow(w uint) {
	if w < MinWindow || w > MaxWindow {
		panic("recode: window width out of range")
	}
}
