package batch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bigcalc/internal/bignum"
	"bigcalc/internal/cache"
	"bigcalc/internal/diag"
	"bigcalc/internal/source"
)

// ErrUnknownOp is returned for an operation symbol outside + * / % ^.
var ErrUnknownOp = errors.New("unknown operation")

// Outcome is what evaluating one record produced.
type Outcome struct {
	// Parsed is true once the operands were read; only then are the
	// header and operands echoed and written.
	Parsed bool
	A, B   string // canonical operands in the record base
	Result string // empty when Failed
	Failed bool
	Cached bool
}

// Evaluator runs records of one file. It is not safe for concurrent use.
type Evaluator struct {
	// MaxLimbs caps operands and results; 0 means bignum.MaxLimbs.
	MaxLimbs int
	Cache    *cache.Disk

	cacheWarned bool
}

// Eval evaluates rec and reports failures to r.
func (e *Evaluator) Eval(rec *Record, r diag.Reporter) Outcome {
	if rec.Broken != 0 {
		return Outcome{Failed: true}
	}

	a, ok := e.operand(rec.A, rec.ASpan, rec.Base, r)
	if !ok {
		return Outcome{Failed: true}
	}
	var b bignum.Nat
	if rec.Kind == KindOp {
		if b, ok = e.operand(rec.B, rec.BSpan, rec.Base, r); !ok {
			return Outcome{Failed: true}
		}
	}

	out := Outcome{Parsed: true, A: mustFormat(a, rec.Base)}
	if rec.Kind == KindOp {
		out.B = mustFormat(b, rec.Base)
	}

	if rec.Kind == KindOp && !knownOp(rec.Op) {
		diag.ReportError(r, diag.RecUnknownOp, rec.Header,
			fmt.Sprintf("unknown operation %q", rec.Op)).
			WithNote(rec.Header, "supported operations: + * / % ^").
			Emit()
		out.Failed = true
		return out
	}

	key := e.key(rec, out)
	var entry cache.Entry
	if hit, err := e.Cache.Get(key, &entry); err != nil {
		e.cacheProblem(rec, r, err)
	} else if hit {
		out.Cached = true
		if entry.Code != 0 {
			diag.ReportError(r, diag.Code(entry.Code), rec.Header, entry.Message).Emit()
			out.Failed = true
			return out
		}
		out.Result = entry.Result
		return out
	}

	res, err := e.compute(rec, a, b)
	entry = cache.Entry{}
	if err != nil {
		code := CodeFor(err)
		diag.ReportError(r, code, rec.Header, err.Error()).Emit()
		out.Failed = true
		entry.Code = uint16(code)
		entry.Message = err.Error()
	} else {
		out.Result = mustFormat(res, e.outputBase(rec))
		entry.Result = out.Result
	}
	if err := e.Cache.Put(key, &entry); err != nil {
		e.cacheProblem(rec, r, err)
	}
	return out
}

func (e *Evaluator) operand(text string, sp source.Span, base int, r diag.Reporter) (bignum.Nat, bool) {
	n, err := bignum.Parse(text, base)
	if err == nil {
		err = e.checkSize(n)
	}
	if err == nil {
		return n, true
	}

	var de *bignum.DigitError
	switch {
	case errors.Is(err, bignum.ErrEmpty):
		diag.ReportError(r, diag.RecEmptyNumber, sp, "expected a number, got an empty line").Emit()
	case errors.As(err, &de):
		at := sp.Slice(de.Offset, de.Width)
		diag.ReportError(r, CodeFor(err), at, err.Error()).
			WithNote(sp, fmt.Sprintf("number is written in base %d", base)).
			Emit()
	default:
		diag.ReportError(r, CodeFor(err), sp, err.Error()).Emit()
	}
	return bignum.Nat{}, false
}

func (e *Evaluator) compute(rec *Record, a, b bignum.Nat) (bignum.Nat, error) {
	if rec.Kind == KindConvert {
		return a, nil
	}
	res, err := Apply(rec.Op, a, b)
	if err != nil {
		return bignum.Nat{}, err
	}
	if err := e.checkSize(res); err != nil {
		return bignum.Nat{}, err
	}
	return res, nil
}

// Apply runs one of the batch operations.
func Apply(op rune, a, b bignum.Nat) (bignum.Nat, error) {
	switch op {
	case '+':
		return bignum.Add(a, b)
	case '*':
		return bignum.Mul(a, b)
	case '/':
		return bignum.Quo(a, b)
	case '%':
		return bignum.Rem(a, b)
	case '^':
		return bignum.Pow(a, b)
	}
	return bignum.Nat{}, fmt.Errorf("%w %q", ErrUnknownOp, op)
}

// Operators lists the operation headers Apply understands.
const Operators = "+*/%^"

func knownOp(op rune) bool {
	return strings.ContainsRune(Operators, op)
}

func (e *Evaluator) limit() int {
	if e.MaxLimbs <= 0 || e.MaxLimbs > bignum.MaxLimbs {
		return bignum.MaxLimbs
	}
	return e.MaxLimbs
}

func (e *Evaluator) checkSize(n bignum.Nat) error {
	if lim := e.limit(); n.Len() > lim {
		return fmt.Errorf("%w: %d limbs, limit is %d", bignum.ErrSizeLimit, n.Len(), lim)
	}
	return nil
}

func (e *Evaluator) outputBase(rec *Record) int {
	if rec.Kind == KindConvert {
		return rec.To
	}
	return rec.Base
}

func (e *Evaluator) key(rec *Record, out Outcome) cache.Key {
	lim := strconv.Itoa(e.limit())
	if rec.Kind == KindConvert {
		return cache.KeyFor("convert", strconv.Itoa(rec.Base), strconv.Itoa(rec.To), out.A, lim)
	}
	return cache.KeyFor("op", string(rec.Op), strconv.Itoa(rec.Base), out.A, out.B, lim)
}

func (e *Evaluator) cacheProblem(rec *Record, r diag.Reporter, err error) {
	if e.cacheWarned {
		return
	}
	e.cacheWarned = true
	diag.ReportWarning(r, diag.IOCacheFailed, rec.Header, "result cache: "+err.Error()).Emit()
}

// CodeFor maps an arithmetic error to its diagnostic code.
func CodeFor(err error) diag.Code {
	switch {
	case errors.Is(err, bignum.ErrDivideByZero):
		return diag.NumDivideByZero
	case errors.Is(err, bignum.ErrInvalidDigit):
		return diag.NumInvalidDigit
	case errors.Is(err, bignum.ErrDigitOutOfRange):
		return diag.NumDigitOutOfRange
	case errors.Is(err, bignum.ErrExponentTooLarge):
		return diag.NumExponentTooLarge
	case errors.Is(err, bignum.ErrUndefined):
		return diag.NumUndefined
	case errors.Is(err, bignum.ErrSizeLimit):
		return diag.NumSizeLimit
	case errors.Is(err, bignum.ErrEmpty):
		return diag.RecEmptyNumber
	case errors.Is(err, ErrUnknownOp):
		return diag.RecUnknownOp
	case errors.Is(err, bignum.ErrInvalidBase):
		return diag.RecBadBase
	}
	return diag.UnknownCode
}

// mustFormat is only called with bases checked by the parser.
func mustFormat(n bignum.Nat, base int) string {
	s, err := bignum.Format(n, base)
	if err != nil {
		panic(fmt.Errorf("format in base %d: %w", base, err))
	}
	return s
}
