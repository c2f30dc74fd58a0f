package bignum

import (
	"math/big"
	"math/rand/v2"
	"testing"
)

// toBig converts a Nat into a math/big value used as the reference.
func toBig(x Nat) *big.Int {
	w := x.words()
	out := new(big.Int)
	for i := len(w) - 1; i >= 0; i-- {
		out.Lsh(out, 32)
		out.Or(out, new(big.Int).SetUint64(uint64(w[i])))
	}
	return out
}

// fromBig converts a non-negative math/big value into a Nat.
func fromBig(t testing.TB, b *big.Int) Nat {
	t.Helper()
	if b.Sign() < 0 {
		t.Fatalf("fromBig: negative value %s", b)
	}
	var limbs []uint32
	mask := new(big.Int).SetUint64(0xffffffff)
	cur := new(big.Int).Set(b)
	for cur.Sign() > 0 {
		limbs = append(limbs, uint32(new(big.Int).And(cur, mask).Uint64()))
		cur.Rsh(cur, 32)
	}
	return FromLimbs(limbs)
}

// randNat returns a random value with exactly n limbs. Limbs are biased
// towards 0 and 0xffffffff to hit carry and correction edge cases.
func randNat(r *rand.Rand, n int) Nat {
	limbs := make([]uint32, n)
	for i := range limbs {
		switch r.IntN(6) {
		case 0:
			limbs[i] = 0
		case 1:
			limbs[i] = 0xffffffff
		case 2:
			limbs[i] = 0x80000000
		default:
			limbs[i] = r.Uint32()
		}
	}
	if limbs[n-1] == 0 {
		limbs[n-1] = 1
	}
	return FromLimbs(limbs)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(0x5eed, 0xb16))
}

// assertCanonical fails when x breaks the limb invariants.
func assertCanonical(t *testing.T, x Nat) {
	t.Helper()
	w := x.words()
	if len(w) == 0 {
		t.Fatalf("value has no limbs")
	}
	if len(w) > 1 && w[len(w)-1] == 0 {
		t.Fatalf("value has a leading zero limb: %v", w)
	}
}

func assertBigEqual(t *testing.T, got Nat, want *big.Int, what string) {
	t.Helper()
	assertCanonical(t, got)
	if g := toBig(got); g.Cmp(want) != 0 {
		t.Fatalf("%s: got %s, want %s", what, g.Text(16), want.Text(16))
	}
}
