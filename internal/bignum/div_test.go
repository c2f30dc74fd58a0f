package bignum

import (
	"errors"
	"math/big"
	"testing"
)

func checkDivMod(t *testing.T, u, v Nat) {
	t.Helper()
	q, r, err := DivMod(u, v)
	if err != nil {
		t.Fatalf("DivMod(%s, %s): %v", u, v, err)
	}
	assertCanonical(t, q)
	assertCanonical(t, r)

	wq, wr := new(big.Int).QuoRem(toBig(u), toBig(v), new(big.Int))
	assertBigEqual(t, q, wq, "quotient")
	assertBigEqual(t, r, wr, "remainder")

	if r.Cmp(v) >= 0 {
		t.Fatalf("remainder %s is not below divisor %s", r, v)
	}
	prod, err := Mul(q, v)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Add(prod, r)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(u) {
		t.Fatalf("q*v+r = %s, want %s", back, u)
	}
}

func TestDivModScenario(t *testing.T) {
	u := MustParse("1000000000000000000000", 10)
	v := MustParse("999999999", 10)
	checkDivMod(t, u, v)

	q, r, _ := DivMod(u, v)
	if q.String() != "1000000001000" || r.String() != "1000" {
		t.Fatalf("got q=%s r=%s", q, r)
	}
}

func TestDivideByZero(t *testing.T) {
	for _, u := range []Nat{Zero(), One(), MustParse("123456789012345678901234567890", 10)} {
		q, r, err := DivMod(u, Zero())
		if !errors.Is(err, ErrDivideByZero) {
			t.Fatalf("DivMod(%s, 0): err = %v, want ErrDivideByZero", u, err)
		}
		if !q.IsZero() || !r.IsZero() {
			t.Fatalf("DivMod(%s, 0) leaked partial results %s, %s", u, q, r)
		}
	}
	if _, err := Quo(One(), Nat{}); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("Quo by zero value: %v", err)
	}
	if _, err := Rem(One(), Zero()); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("Rem by zero: %v", err)
	}
	if _, _, err := DivModUint32(One(), 0); !errors.Is(err, ErrDivideByZero) {
		t.Fatalf("DivModUint32 by zero: %v", err)
	}
}

func TestDivModFastPaths(t *testing.T) {
	small := MustParse("12345", 10)
	big2 := FromLimbs([]uint32{1, 2, 3})

	q, r, err := DivMod(small, big2)
	if err != nil || !q.IsZero() || !r.Equal(small) {
		t.Fatalf("short dividend: q=%s r=%s err=%v", q, r, err)
	}

	q, r, err = DivMod(big2, One())
	if err != nil || !q.Equal(big2) || !r.IsZero() {
		t.Fatalf("divide by one: q=%s r=%s err=%v", q, r, err)
	}
	if &q.words()[0] == &big2.words()[0] {
		t.Fatal("x/1 must return a copy, not an alias")
	}

	checkDivMod(t, big2, FromUint32(7))
	checkDivMod(t, big2, FromUint32(0xffffffff))
	checkDivMod(t, Zero(), FromUint32(3))
}

func TestDivKnuthEdgeCases(t *testing.T) {
	tests := []struct {
		name string
		u, v []uint32
	}{
		// Divisor already normalized (shift == 0).
		{"no shift", []uint32{1, 2, 3, 4}, []uint32{5, 0x80000000}},
		// Maximum shift.
		{"shift 31", []uint32{0xffffffff, 0xffffffff, 0xffffffff}, []uint32{0xffffffff, 1}},
		// Classic add-back trigger: qhat is one too large after the two-limb test.
		{"add back", []uint32{0, 0, 0x80000000, 0x7fffffff}, []uint32{1, 0, 0x80000000}},
		{"add back 2", []uint32{0, 0xfffffffe, 0, 0x80000000}, []uint32{0xffffffff, 0, 0x80000000}},
		// qhat estimate overflows one limb.
		{"qhat overflow", []uint32{0, 0, 0x7fffffff, 0x80000000}, []uint32{0xffffffff, 0x80000000}},
		{"equal", []uint32{9, 8, 7}, []uint32{9, 8, 7}},
		{"one below", []uint32{8, 8, 7}, []uint32{9, 8, 7}},
		{"same length bigger", []uint32{0, 0, 0xffffffff}, []uint32{1, 0, 1}},
		{"trailing zero divisor", []uint32{3, 0, 0, 0, 5}, []uint32{0, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkDivMod(t, FromLimbs(tt.u), FromLimbs(tt.v))
		})
	}
}

func TestDivModAgainstBig(t *testing.T) {
	r := newRand()
	for range 2000 {
		n := 2 + r.IntN(8)
		m := n + r.IntN(8)
		u := randNat(r, m)
		v := randNat(r, n)
		checkDivMod(t, u, v)
	}
}

func TestDivModExactMultiples(t *testing.T) {
	r := newRand()
	for range 200 {
		q := randNat(r, 1+r.IntN(6))
		v := randNat(r, 2+r.IntN(6))
		u, err := Mul(q, v)
		if err != nil {
			t.Fatal(err)
		}
		gotQ, gotR, err := DivMod(u, v)
		if err != nil {
			t.Fatal(err)
		}
		if !gotQ.Equal(q) || !gotR.IsZero() {
			t.Fatalf("(%s*%s)/%s = %s rem %s", q, v, v, gotQ, gotR)
		}
	}
}
