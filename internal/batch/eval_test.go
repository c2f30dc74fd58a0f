package batch

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"bigcalc/internal/bignum"
	"bigcalc/internal/cache"
	"bigcalc/internal/diag"
)

func evalOne(t *testing.T, ev *Evaluator, input string) (Outcome, *diag.Bag, *Record) {
	t.Helper()
	f := loadVirtual(t, input)
	bag := diag.NewBag(10)
	res := Parse(f, diag.BagReporter{Bag: bag})
	if len(res.Records) != 1 {
		t.Fatalf("parsed %d records from %q", len(res.Records), input)
	}
	rec := &res.Records[0]
	return ev.Eval(rec, diag.BagReporter{Bag: bag}), bag, rec
}

func TestEvalResults(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Outcome
	}{
		{"add", "+ 10\n\n123\n\n456\n\n\n", Outcome{Parsed: true, A: "123", B: "456", Result: "579"}},
		{"mul", "* 10\n\n99999\n\n99999\n\n\n", Outcome{Parsed: true, A: "99999", B: "99999", Result: "9999800001"}},
		{"quo", "/ 10\n\n1000000000000000000000\n\n999999999\n\n\n",
			Outcome{Parsed: true, A: "1000000000000000000000", B: "999999999", Result: "1000000001000"}},
		{"rem", "% 10\n\n1000000000000000000000\n\n999999999\n\n\n",
			Outcome{Parsed: true, A: "1000000000000000000000", B: "999999999", Result: "1000"}},
		{"pow", "^ 10\n\n2\n\n10\n\n\n", Outcome{Parsed: true, A: "2", B: "10", Result: "1024"}},
		{"hex canonical", "+ 16\n\n00ff\n\n1\n\n\n", Outcome{Parsed: true, A: "FF", B: "1", Result: "100"}},
		{"convert", "16 2\n\nff\n\n\n", Outcome{Parsed: true, A: "FF", Result: "11111111"}},
		{"convert zero", "10 16\n\n000\n\n\n", Outcome{Parsed: true, A: "0", Result: "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bag, _ := evalOne(t, &Evaluator{}, tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("outcome mismatch (-want +got):\n%s", diff)
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %v", codes(bag))
			}
		})
	}
}

func TestEvalFailures(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxLimbs   int
		wantCode   diag.Code
		wantParsed bool
	}{
		{"divide by zero", "/ 10\n\n5\n\n0\n\n\n", 0, diag.NumDivideByZero, true},
		{"mod by zero", "% 10\n\n5\n\n0\n\n\n", 0, diag.NumDivideByZero, true},
		{"zero to zero", "^ 10\n\n0\n\n0\n\n\n", 0, diag.NumUndefined, true},
		{"huge exponent", "^ 10\n\n2\n\n4294967296\n\n\n", 0, diag.NumExponentTooLarge, true},
		{"unknown op", "- 10\n\n3\n\n4\n\n\n", 0, diag.RecUnknownOp, true},
		{"invalid digit", "+ 10\n\n12x4\n\n1\n\n\n", 0, diag.NumInvalidDigit, false},
		{"digit out of range", "+ 2\n\n102\n\n1\n\n\n", 0, diag.NumDigitOutOfRange, false},
		{"bad second operand", "* 8\n\n7\n\n9\n\n\n", 0, diag.NumDigitOutOfRange, false},
		{"empty number", "+ 10\n\n\n\n1\n\n\n", 0, diag.RecEmptyNumber, false},
		{"result too large", "* 16\n\nFFFFFFFF\n\nFFFFFFFF\n\n\n", 1, diag.NumSizeLimit, true},
		{"operand too large", "+ 16\n\n100000000\n\n1\n\n\n", 1, diag.NumSizeLimit, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, bag, _ := evalOne(t, &Evaluator{MaxLimbs: tt.maxLimbs}, tt.input)
			if !got.Failed || got.Parsed != tt.wantParsed || got.Result != "" {
				t.Fatalf("outcome = %+v", got)
			}
			if diff := cmp.Diff([]diag.Code{tt.wantCode}, codes(bag)); diff != "" {
				t.Fatalf("codes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvalDigitSpan(t *testing.T) {
	f := loadVirtual(t, "+ 10\n\n12x4\n\n1\n\n\n")
	bag := diag.NewBag(10)
	res := Parse(f, diag.BagReporter{Bag: bag})
	(&Evaluator{}).Eval(&res.Records[0], diag.BagReporter{Bag: bag})

	d := bag.Items()[0]
	if got := spanText(f, d.Primary); got != "x" {
		t.Fatalf("diagnostic points at %q", got)
	}
	if d.Primary.Start != 8 {
		t.Fatalf("start = %d, want 8", d.Primary.Start)
	}
	if len(d.Notes) != 1 || spanText(f, d.Notes[0].Span) != "12x4" {
		t.Fatalf("notes = %+v", d.Notes)
	}
}

func TestEvalDigitSpanInvalidUTF8(t *testing.T) {
	f := loadVirtual(t, "+ 10\n\n1\xff23\n\n1\n\n\n")
	bag := diag.NewBag(10)
	res := Parse(f, diag.BagReporter{Bag: bag})
	(&Evaluator{}).Eval(&res.Records[0], diag.BagReporter{Bag: bag})

	d := bag.Items()[0]
	if d.Primary.Start != 7 || d.Primary.End != 8 {
		t.Fatalf("span = %v, want the single bad byte at 7", d.Primary)
	}
	if got := spanText(f, d.Primary); got != "\xff" {
		t.Fatalf("diagnostic points at %q", got)
	}
}

func TestEvalBrokenRecordIsSkipped(t *testing.T) {
	bag := diag.NewBag(10)
	got := (&Evaluator{}).Eval(&Record{Kind: KindOp, Op: '+', Base: 10, A: "1", B: "1", Broken: diag.RecBadBase}, diag.BagReporter{Bag: bag})
	if got.Parsed || !got.Failed {
		t.Fatalf("outcome = %+v", got)
	}
	if bag.Len() != 0 {
		t.Fatalf("broken records are reported by the parser, got %v", codes(bag))
	}
}

func TestEvalUsesCache(t *testing.T) {
	disk, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, _, _ := evalOne(t, &Evaluator{Cache: disk}, "* 10\n\n12345678901234567890\n\n98765432109876543210\n\n\n")
	if first.Cached {
		t.Fatal("first evaluation cannot be cached")
	}
	second, _, _ := evalOne(t, &Evaluator{Cache: disk}, "* 10\n\n0012345678901234567890\n\n98765432109876543210\n\n\n")
	if !second.Cached {
		t.Fatal("canonical operands should hit the cache")
	}
	if second.Result != first.Result {
		t.Fatalf("cached result %s, computed %s", second.Result, first.Result)
	}

	_, _, _ = evalOne(t, &Evaluator{Cache: disk}, "/ 10\n\n5\n\n0\n\n\n")
	failed, bag, _ := evalOne(t, &Evaluator{Cache: disk}, "/ 10\n\n5\n\n0\n\n\n")
	if !failed.Cached || !failed.Failed {
		t.Fatalf("cached failure = %+v", failed)
	}
	if diff := cmp.Diff([]diag.Code{diag.NumDivideByZero}, codes(bag)); diff != "" {
		t.Fatal(diff)
	}

	// другой лимит - другой ключ
	limited, _, _ := evalOne(t, &Evaluator{Cache: disk, MaxLimbs: 100}, "/ 10\n\n5\n\n0\n\n\n")
	if limited.Cached {
		t.Fatal("entries must not be shared across size limits")
	}

	if st := disk.Stats(); st.Hits != 2 || st.Writes != 3 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestApplyUnknownOp(t *testing.T) {
	_, err := Apply('&', bignum.One(), bignum.One())
	if CodeFor(err) != diag.RecUnknownOp {
		t.Fatalf("err = %v", err)
	}
}
