package recode

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustRandomBig(t *testing.T, bits uint) *big.Int {
	bound := new(big.Int).Lsh(big.NewInt(1), bits)
	k, err := rand.Int(rand.Reader, bound)
	require.NoError(t, err, "rand.Int")
	return k
}

// nafValue reconstructs sum(d_i * 2^i).
func nafValue(digits []int8) *big.Int {
	v := new(big.Int)
	for i := len(digits) - 1; i >= 0; i-- {
		v.Lsh(v, 1)
		v.Add(v, big.NewInt(int64(digits[i])))
	}
	return v
}

func TestNaf(t *testing.T) {
	for w := uint(MinWindow); w <= MaxWindow; w++ {
		half := int8(1) << (w - 1)

		for iter := 0; iter < 32; iter++ {
			k := mustRandomBig(t, 233)

			digits := Naf(nil, k, w)
			require.LessOrEqual(t, len(digits), NafLen(k.BitLen()), "digit count")
			require.Zero(t, k.Cmp(nafValue(digits)), "reconstruction: w=%d k=%v", w, k)

			for i, d := range digits {
				if d == 0 {
					continue
				}
				require.EqualValues(t, 1, d&1, "digit parity")
				require.Less(t, d, half, "digit bound")
				require.GreaterOrEqual(t, d, -half, "digit bound")

				// Non-adjacency: the next w-1 digits are zero.
				for j := i + 1; j < i+int(w) && j < len(digits); j++ {
					require.Zero(t, digits[j], "non-adjacency: w=%d", w)
				}
			}

			if len(digits) > 0 {
				require.Positive(t, digits[len(digits)-1], "leading digit sign")
			}
		}
	}

	require.Empty(t, Naf(nil, new(big.Int), 4), "zero scalar")

	// Negative input recodes the magnitude.
	k := big.NewInt(-7)
	require.Zero(t, nafValue(Naf(nil, k, 3)).Cmp(big.NewInt(7)))
}

func TestWindowed(t *testing.T) {
	for w := uint(MinWindow); w <= MaxWindow; w++ {
		for iter := 0; iter < 32; iter++ {
			k := mustRandomBig(t, 233)

			digits := Windowed(nil, k, w)
			require.LessOrEqual(t, len(digits), WindowedLen(k.BitLen(), w), "digit count")

			v := new(big.Int)
			for i := len(digits) - 1; i >= 0; i-- {
				require.Less(t, digits[i], uint8(1)<<w, "digit bound")
				v.Lsh(v, w)
				v.Add(v, big.NewInt(int64(digits[i])))
			}
			require.Zero(t, k.Cmp(v), "reconstruction: w=%d k=%v", w, k)
		}
	}
}

// tauNafValue reconstructs the integer represented by a tau-adic
// expansion via Horner's rule: multiplication by tau maps (c0, c1) to
// (-2*c1, c0 + mu*c1), and each digit u contributes its representative
// alpha_u = beta + gamma*tau.  An expansion of |k| must end at (|k|, 0).
func tauNafValue(digits []int8, mu int8, w uint) (*big.Int, *big.Int) {
	c0, c1 := new(big.Int), new(big.Int)
	t := new(big.Int)
	for i := len(digits) - 1; i >= 0; i-- {
		t.Mul(c1, big.NewInt(-2))
		if mu == 1 {
			c1.Add(c0, c1)
		} else {
			c1.Sub(c0, c1)
		}
		c0.Set(t)

		if d := digits[i]; d != 0 {
			beta, gamma := TauNafAlpha(mu, w, absInt8(d))
			if d < 0 {
				beta, gamma = -beta, -gamma
			}
			c0.Add(c0, big.NewInt(int64(beta)))
			c1.Add(c1, big.NewInt(int64(gamma)))
		}
	}
	return c0, c1
}

func absInt8(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}

func checkTauNaf(t *testing.T, k *big.Int, mu int8, w uint) {
	half := int8(1) << (w - 1)

	digits := TauNaf(nil, k, mu, w)
	require.LessOrEqual(t, len(digits), TauNafLen(k.BitLen(), w), "digit count")

	c0, c1 := tauNafValue(digits, mu, w)
	require.Zero(t, c0.Cmp(k), "reconstruction: mu=%d w=%d k=%v", mu, w, k)
	require.Zero(t, c1.Sign(), "tau component: mu=%d w=%d k=%v", mu, w, k)

	for i, d := range digits {
		if d == 0 {
			continue
		}
		require.EqualValues(t, 1, d&1, "digit parity")
		require.Less(t, d, half, "digit bound")
		require.GreaterOrEqual(t, d, -half, "digit bound")

		for j := i + 1; j < i+int(w) && j < len(digits); j++ {
			require.Zero(t, digits[j], "window property: mu=%d w=%d", mu, w)
		}
	}
}

func TestTauNaf(t *testing.T) {
	for _, mu := range []int8{-1, 1} {
		for w := uint(MinWindow); w <= MaxWindow; w++ {
			for iter := 0; iter < 16; iter++ {
				checkTauNaf(t, mustRandomBig(t, 233), mu, w)
			}

			// Small scalars exercise the tail of the expansion, where a
			// bad representative choice would cycle instead of reaching
			// zero.
			for k := int64(0); k <= 512; k++ {
				checkTauNaf(t, big.NewInt(k), mu, w)
			}
		}
	}

	require.Empty(t, TauNaf(nil, new(big.Int), -1, 4), "zero scalar")
}

func TestTauNafAlpha(t *testing.T) {
	// Every table entry must actually represent its class: alpha_u == u
	// mod tau^w, i.e. beta + gamma*t_w == u mod 2^w, with beta odd and
	// the norm below (4/7)*2^w.
	for _, mu := range []int8{-1, 1} {
		for w := uint(MinWindow); w <= MaxWindow; w++ {
			tw := tauModTw(mu, w)
			mod := int64(1) << w

			for u := int8(1); int(u) < 1<<(w-1); u += 2 {
				beta, gamma := TauNafAlpha(mu, w, u)
				require.EqualValues(t, 1, beta&1, "beta parity: mu=%d w=%d u=%d", mu, w, u)

				v := (int64(beta) + int64(gamma)*tw - int64(u)) % mod
				require.Zero(t, (v+mod)%mod, "class: mu=%d w=%d u=%d", mu, w, u)

				n := int64(beta)*int64(beta) +
					int64(mu)*int64(beta)*int64(gamma) +
					2*int64(gamma)*int64(gamma)
				require.Less(t, 7*n, int64(4)<<w, "norm: mu=%d w=%d u=%d", mu, w, u)
			}
		}
	}

	require.Panics(t, func() { TauNafAlpha(-1, 4, 2) }, "even digit")
	require.Panics(t, func() { TauNafAlpha(-1, 4, 9) }, "digit too large")
	require.Panics(t, func() { TauNafAlpha(0, 4, 1) }, "bad tau sign")
}

func TestTauModTw(t *testing.T) {
	// t_w must be an even root of tau's minimal polynomial
	// t^2 - mu*t + 2 modulo 2^w.
	for _, mu := range []int8{-1, 1} {
		for w := uint(MinWindow); w <= MaxWindow; w++ {
			tw := tauModTw(mu, w)
			require.Zero(t, tw&1, "t_w parity: mu=%d w=%d", mu, w)

			mod := int64(1) << w
			v := (tw*tw - int64(mu)*tw + 2) % mod
			require.Zero(t, v, "minimal polynomial: mu=%d w=%d", mu, w)
		}
	}
}

func TestWindowBounds(t *testing.T) {
	k := big.NewInt(1)
	require.Panics(t, func() { Naf(nil, k, MinWindow-1) })
	require.Panics(t, func() { Naf(nil, k, MaxWindow+1) })
	require.Panics(t, func() { Windowed(nil, k, MaxWindow+1) })
	require.Panics(t, func() { TauNaf(nil, k, -1, MaxWindow+1) })
	require.Panics(t, func() { TauNaf(nil, k, 0, 4) })
}
