package batch

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"bigcalc/internal/bignum"
	"bigcalc/internal/diag"
	"bigcalc/internal/source"
)

// ParseResult holds the records of one file.
type ParseResult struct {
	Records []Record
	// Truncated is set when the file ended inside a record; the records
	// before it are still valid.
	Truncated bool
}

type lineReader struct {
	file *source.File
	next uint32 // 1-based
	last uint32
}

func (lr *lineReader) done() bool {
	return lr.next > lr.last
}

// read returns the next line with trailing whitespace removed.
func (lr *lineReader) read() (string, source.Span, uint32, bool) {
	if lr.done() {
		return "", source.Span{}, 0, false
	}
	n := lr.next
	lr.next++
	sp, _ := lr.file.LineSpan(n)
	text := strings.TrimRightFunc(string(lr.file.Content[sp.Start:sp.End]), unicode.IsSpace)
	return text, sp.Slice(0, len(text)), n, true
}

func (lr *lineReader) unread() {
	lr.next--
}

// Parse splits file into records. Problems with the layout are reported
// to r; a record with a broken layout is still returned (with Broken set)
// so the writer can put the error line in its place.
func Parse(file *source.File, r diag.Reporter) ParseResult {
	lr := &lineReader{file: file, next: 1, last: file.LineCount()}
	var res ParseResult

	for !lr.done() {
		line, sp, lineNum, _ := lr.read()
		if line == "" {
			continue
		}

		rec, ok := parseHeader(line, sp, lineNum, r)
		if !ok {
			continue
		}

		layout := rec.Kind.layout()
		numbers := 0
		for i, wantNumber := range layout {
			text, lineSp, _, ok := lr.read()
			if !ok {
				if numbers < rec.Kind.Operands() {
					diag.ReportError(r, diag.RecUnexpectedEOF, rec.Header,
						fmt.Sprintf("unexpected end of file inside %s record", rec.Kind)).
						WithNote(rec.Header, rec.Kind.usage()).
						Emit()
					res.Truncated = true
					return res
				}
				// trailing blank lines may be cut off by EOF
				break
			}
			if wantNumber {
				if numbers == 0 {
					rec.A, rec.ASpan = text, lineSp
				} else {
					rec.B, rec.BSpan = text, lineSp
				}
				numbers++
				continue
			}
			if text != "" {
				diag.ReportError(r, diag.RecMissingBlank, lineSp,
					fmt.Sprintf("expected an empty line after line %d of the record", i+1)).
					WithNote(rec.Header, rec.Kind.usage()).
					Emit()
				if rec.Broken == 0 {
					rec.Broken = diag.RecMissingBlank
				}
				// the offending line may be the next header
				lr.unread()
				break
			}
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func parseHeader(line string, sp source.Span, lineNum uint32, r diag.Reporter) (Record, bool) {
	rec := Record{Line: lineNum, Header: sp}
	fields := strings.Fields(line)
	if len(fields) != 2 || !isDecimal(fields[1]) {
		diag.ReportWarning(r, diag.RecUnknownLine, sp,
			fmt.Sprintf("cannot understand line %q", line)).Emit()
		return rec, false
	}

	switch {
	case isDecimal(fields[0]):
		rec.Kind = KindConvert
		rec.Base = parseBase(fields[0])
		rec.To = parseBase(fields[1])
		if !validBase(rec.Base) {
			reportBadBase(r, sp, "from_base", fields[0])
			rec.Broken = diag.RecBadBase
		} else if !validBase(rec.To) {
			reportBadBase(r, sp, "to_base", fields[1])
			rec.Broken = diag.RecBadBase
		}
	case utf8.RuneCountInString(fields[0]) == 1:
		rec.Kind = KindOp
		rec.Op, _ = utf8.DecodeRuneInString(fields[0])
		rec.Base = parseBase(fields[1])
		if !validBase(rec.Base) {
			reportBadBase(r, sp, "base", fields[1])
			rec.Broken = diag.RecBadBase
		}
	default:
		diag.ReportWarning(r, diag.RecUnknownLine, sp,
			fmt.Sprintf("cannot understand line %q", line)).Emit()
		return rec, false
	}
	return rec, true
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// parseBase returns -1 for values that do not fit an int.
func parseBase(s string) int {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return -1
	}
	return int(v)
}

func validBase(b int) bool {
	return b >= bignum.MinBase && b <= bignum.MaxBase
}

func reportBadBase(r diag.Reporter, sp source.Span, what, text string) {
	diag.ReportError(r, diag.RecBadBase, sp,
		fmt.Sprintf("invalid %s %s: base must be in range [%d, %d]", what, text, bignum.MinBase, bignum.MaxBase)).
		Emit()
}
