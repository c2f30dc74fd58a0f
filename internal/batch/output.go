package batch

import (
	"fmt"
	"io"
)

// ErrorLine replaces the result of a failed record in the output file.
// The spelling is part of the output format.
const ErrorLine = "An error occured during calculation!"

// WriteRecord appends rec to the result file. Every value is followed by
// an empty line:
//
//	+ 10
//
//	123
//
//	456
//
//	579
//
// A conversion writes the number in both bases instead of operands and
// result. Records that failed before their operands were read produce only
// the error line.
func WriteRecord(w io.Writer, rec *Record, out Outcome) {
	if !out.Parsed {
		fmt.Fprintf(w, "%s\n\n", ErrorLine)
		return
	}
	fmt.Fprintf(w, "%s\n\n%s\n\n", rec.HeaderText(), out.A)
	if rec.Kind == KindOp {
		fmt.Fprintf(w, "%s\n\n", out.B)
	}
	if out.Failed {
		fmt.Fprintf(w, "%s\n\n", ErrorLine)
		return
	}
	fmt.Fprintf(w, "%s\n\n", out.Result)
}

// EchoRecord prints the console view of a record whose operands were read.
func EchoRecord(w io.Writer, rec *Record, out Outcome) {
	if !out.Parsed {
		return
	}
	if rec.Kind == KindConvert {
		fmt.Fprintf(w, "%d -> %d\n%s\n\n", rec.Base, rec.To, out.A)
		return
	}
	fmt.Fprintf(w, "[%d]\n%s\n%c\n%s\n\n", rec.Base, out.A, rec.Op, out.B)
}
