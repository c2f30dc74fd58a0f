package bignum

import (
	"errors"
	"math/big"
	"testing"
)

func TestPowSpecialCases(t *testing.T) {
	a := MustParse("123456789", 10)
	tests := []struct {
		name    string
		base    Nat
		exp     Nat
		want    string
		wantErr error
	}{
		{"0^0", Zero(), Zero(), "", ErrUndefined},
		{"0^5", Zero(), FromUint32(5), "0", nil},
		{"0^huge", Zero(), FromLimbs([]uint32{0, 1}), "0", nil},
		{"a^0", a, Zero(), "1", nil},
		{"1^k", One(), FromUint32(1000), "1", nil},
		{"1^huge", One(), FromLimbs([]uint32{0, 1}), "1", nil},
		{"a^1", a, One(), "123456789", nil},
		{"2^10", FromUint32(2), FromUint32(10), "1024", nil},
		{"3^3", FromUint32(3), FromUint32(3), "27", nil},
		{"7^4", FromUint32(7), FromUint32(4), "2401", nil},
		{"2^64", FromUint32(2), FromUint32(64), "18446744073709551616", nil},
		{"exp too large", FromUint32(2), FromLimbs([]uint32{0, 1}), "", ErrExponentTooLarge},
		{"result too large", FromUint32(2), FromUint32(0xffffffff), "", ErrSizeLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Pow(tt.base, tt.exp)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPowScenario(t *testing.T) {
	got, err := Pow(MustParse("2", 10), MustParse("10", 10))
	if err != nil {
		t.Fatal(err)
	}
	s, err := Format(got, 10)
	if err != nil {
		t.Fatal(err)
	}
	if s != "1024" {
		t.Fatalf("2^10 = %s", s)
	}
}

func TestPowAgainstBig(t *testing.T) {
	r := newRand()
	for range 100 {
		base := randNat(r, 1+r.IntN(3))
		e := uint32(r.IntN(40))
		got, err := PowUint32(base, e)
		if base.IsZero() && e == 0 {
			continue
		}
		if err != nil {
			t.Fatalf("%s^%d: %v", base, e, err)
		}
		want := new(big.Int).Exp(toBig(base), big.NewInt(int64(e)), nil)
		assertBigEqual(t, got, want, "pow")
	}
}

func TestPowOneReturnsCopy(t *testing.T) {
	a := FromLimbs([]uint32{1, 2, 3})
	got, err := Pow(a, One())
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(a) {
		t.Fatalf("a^1 = %s, want %s", got, a)
	}
	if &got.words()[0] == &a.words()[0] {
		t.Fatal("a^1 should be a copy")
	}
}
