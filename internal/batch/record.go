// Package batch reads calculation records from input files, evaluates them
// with the bignum core and writes the results in the classic result.txt
// layout.
package batch

import (
	"fmt"

	"bigcalc/internal/diag"
	"bigcalc/internal/source"
)

// Kind tells the two record shapes apart.
type Kind uint8

const (
	// KindOp is "<op> <base>" followed by two operands.
	KindOp Kind = iota
	// KindConvert is "<from> <to>" followed by one number.
	KindConvert
)

func (k Kind) String() string {
	switch k {
	case KindOp:
		return "op"
	case KindConvert:
		return "convert"
	}
	return "unknown"
}

// Record is one header line plus its number lines.
type Record struct {
	Kind Kind
	// Line is the 1-based line of the header.
	Line   uint32
	Header source.Span

	Op   rune // KindOp only
	Base int  // KindOp: working base; KindConvert: source base
	To   int  // KindConvert only

	A, B         string // operand text, trailing whitespace removed
	ASpan, BSpan source.Span

	// Broken is set when the record layout itself is wrong (bad base,
	// missing blank line). Such a record is not evaluated; only the
	// error line is written for it.
	Broken diag.Code
}

// HeaderText renders the header the way it goes to the output file.
func (r *Record) HeaderText() string {
	if r.Kind == KindConvert {
		return fmt.Sprintf("%d %d", r.Base, r.To)
	}
	return fmt.Sprintf("%c %d", r.Op, r.Base)
}

// Operands returns how many number lines follow the header.
func (k Kind) Operands() int {
	if k == KindConvert {
		return 1
	}
	return 2
}

// layout describes the lines following a header: true is a number line,
// false a blank line.
func (k Kind) layout() []bool {
	if k == KindConvert {
		return []bool{false, true, false, false}
	}
	return []bool{false, true, false, true, false, false}
}

func (k Kind) usage() string {
	if k == KindConvert {
		return "correct format: <from_base> <to_base>, blank line, <number>, two blank lines"
	}
	return "correct format: <operation> <base>, blank line, <number>, blank line, <number>, two blank lines"
}
