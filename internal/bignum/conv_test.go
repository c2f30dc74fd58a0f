package bignum

import (
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestParseFormatScenarios(t *testing.T) {
	sum, err := Add(MustParse("123", 10), MustParse("456", 10))
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := Format(sum, 10); s != "579" {
		t.Errorf("123+456 = %s", s)
	}

	prod, err := Mul(MustParse("99999", 10), MustParse("99999", 10))
	if err != nil {
		t.Fatal(err)
	}
	if s, _ := Format(prod, 10); s != "9999800001" {
		t.Errorf("99999*99999 = %s", s)
	}

	ff := MustParse("FF", 16)
	if s, _ := Format(ff, 2); s != "11111111" {
		t.Errorf("FF(16) in base 2 = %s", s)
	}
}

func TestParseCaseInsensitive(t *testing.T) {
	lower := MustParse("deadbeefcafe", 16)
	upper := MustParse("DEADBEEFCAFE", 16)
	mixed := MustParse("DeadBeefCafe", 16)
	if !lower.Equal(upper) || !upper.Equal(mixed) {
		t.Fatalf("case changed the value: %s %s %s", lower, upper, mixed)
	}
	if s, _ := Format(lower, 16); s != "DEADBEEFCAFE" {
		t.Fatalf("Format emits %q, want upper-case digits", s)
	}
}

func TestParseLeadingZeros(t *testing.T) {
	x := MustParse("0000000000000000000000000000042", 10)
	assertCanonical(t, x)
	if x.Len() != 1 || x.String() != "42" {
		t.Fatalf("got %s with %d limbs", x, x.Len())
	}
	if z := MustParse("000", 7); !z.IsZero() {
		t.Fatalf("000 parsed as %s", z)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in      string
		base    int
		wantErr error
		msg     string
	}{
		{"12x4", 10, ErrInvalidDigit, "position 3"},
		{"-5", 10, ErrInvalidDigit, "position 1"},
		{"1 2", 10, ErrInvalidDigit, "position 2"},
		{"12G", 16, ErrInvalidDigit, "'G'"},
		{"١٢", 10, ErrInvalidDigit, "position 1"},
		{"102", 2, ErrDigitOutOfRange, "too big for base 2"},
		{"9", 8, ErrDigitOutOfRange, "base 8"},
		{"A", 10, ErrDigitOutOfRange, "base 10"},
		{"", 10, ErrEmpty, ""},
		{"1", 1, ErrInvalidBase, "got 1"},
		{"1", 17, ErrInvalidBase, "got 17"},
		{"1", -3, ErrInvalidBase, "got -3"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in, tt.base)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q, %d) err = %v, want %v", tt.in, tt.base, err, tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("error %q does not mention %q", err, tt.msg)
			}
			if !got.IsZero() || got.limbs != nil {
				t.Errorf("Parse returned a partial value %v alongside the error", got.limbs)
			}
		})
	}
}

func TestFormatInvalidBase(t *testing.T) {
	for _, b := range []int{-1, 0, 1, 17, 36} {
		if _, err := Format(One(), b); !errors.Is(err, ErrInvalidBase) {
			t.Errorf("Format(1, %d) err = %v", b, err)
		}
	}
}

func TestFormatSingleDigit(t *testing.T) {
	for base := MinBase; base <= MaxBase; base++ {
		for d := range base {
			s, err := Format(FromUint32(uint32(d)), base)
			if err != nil {
				t.Fatal(err)
			}
			if s != string(digitChars[d]) {
				t.Fatalf("Format(%d, %d) = %q", d, base, s)
			}
		}
	}
}

func TestFormatAgainstBig(t *testing.T) {
	r := newRand()
	for range 200 {
		x := randNat(r, 1+r.IntN(6))
		base := MinBase + r.IntN(MaxBase-MinBase+1)
		got, err := Format(x, base)
		if err != nil {
			t.Fatal(err)
		}
		want := strings.ToUpper(toBig(x).Text(base))
		if got != want {
			t.Fatalf("Format(%s, %d) = %s, want %s", x, base, got, want)
		}
	}
}

func TestRoundTripAllBases(t *testing.T) {
	r := newRand()
	values := []Nat{Zero(), One(), FromUint32(0xffffffff), FromUint64(1 << 32)}
	for range 50 {
		values = append(values, randNat(r, 1+r.IntN(8)))
	}
	for base := MinBase; base <= MaxBase; base++ {
		for _, v := range values {
			s, err := Format(v, base)
			if err != nil {
				t.Fatal(err)
			}
			back, err := Parse(s, base)
			if err != nil {
				t.Fatalf("Parse(%q, %d): %v", s, base, err)
			}
			if !back.Equal(v) {
				t.Fatalf("round trip in base %d: %s -> %q -> %s", base, v, s, back)
			}
		}
	}
}

func TestAppendUsesCallerBuffer(t *testing.T) {
	buf := []byte("x=")
	out, err := Append(buf, MustParse("1024", 10), 10)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "x=1024" {
		t.Fatalf("Append = %q", out)
	}

	big1 := new(big.Int).Exp(big.NewInt(3), big.NewInt(500), nil)
	out, err = Append(out[:0], MustParse(big1.String(), 10), 10)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != big1.String() {
		t.Fatal("Append into a reused buffer produced the wrong digits")
	}
}

func TestMustParsePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustParse did not panic on bad input")
		}
	}()
	MustParse("zz", 10)
}

func TestParseDigitErrorOffset(t *testing.T) {
	_, err := Parse("1２x", 10)
	var de *DigitError
	if !errors.As(err, &de) {
		t.Fatalf("err = %T %v, want *DigitError", err, err)
	}
	if de.Pos != 2 || de.Offset != 1 || de.Width != 3 || de.Char != '２' {
		t.Fatalf("DigitError = %+v", de)
	}
}

func TestParseDigitErrorWidth(t *testing.T) {
	tests := []struct {
		in     string
		offset int
		width  int
	}{
		{"1\xff23", 1, 1},
		{"12\uFFFD", 2, 3},
		{"7é", 1, 2},
		{"9", 0, 1},
	}
	for _, tt := range tests {
		_, err := Parse(tt.in, 8)
		var de *DigitError
		if !errors.As(err, &de) {
			t.Fatalf("Parse(%q): err = %v, want *DigitError", tt.in, err)
		}
		if de.Offset != tt.offset || de.Width != tt.width {
			t.Errorf("Parse(%q): offset=%d width=%d, want %d, %d", tt.in, de.Offset, de.Width, tt.offset, tt.width)
		}
	}
}
