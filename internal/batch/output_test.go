package batch

import (
	"strings"
	"testing"
)

func TestWriteRecord(t *testing.T) {
	op := &Record{Kind: KindOp, Op: '+', Base: 10}
	conv := &Record{Kind: KindConvert, Base: 16, To: 2}
	tests := []struct {
		name string
		rec  *Record
		out  Outcome
		want string
	}{
		{"op", op, Outcome{Parsed: true, A: "123", B: "456", Result: "579"},
			"+ 10\n\n123\n\n456\n\n579\n\n"},
		{"op failed after parse", &Record{Kind: KindOp, Op: '/', Base: 10}, Outcome{Parsed: true, A: "5", B: "0", Failed: true},
			"/ 10\n\n5\n\n0\n\nAn error occured during calculation!\n\n"},
		{"not parsed", op, Outcome{Failed: true},
			"An error occured during calculation!\n\n"},
		{"convert", conv, Outcome{Parsed: true, A: "FF", Result: "11111111"},
			"16 2\n\nFF\n\n11111111\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			WriteRecord(&b, tt.rec, tt.out)
			if b.String() != tt.want {
				t.Fatalf("got %q, want %q", b.String(), tt.want)
			}
		})
	}
}

func TestEchoRecord(t *testing.T) {
	var b strings.Builder
	EchoRecord(&b, &Record{Kind: KindOp, Op: '*', Base: 10}, Outcome{Parsed: true, A: "12", B: "3", Result: "36"})
	EchoRecord(&b, &Record{Kind: KindConvert, Base: 16, To: 2}, Outcome{Parsed: true, A: "FF", Result: "11111111"})
	EchoRecord(&b, &Record{Kind: KindOp, Op: '+', Base: 10}, Outcome{Failed: true})

	want := "[10]\n12\n*\n3\n\n" + "16 -> 2\nFF\n\n"
	if b.String() != want {
		t.Fatalf("got %q, want %q", b.String(), want)
	}
}
