package batch

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bigcalc/internal/cache"
	"bigcalc/internal/diag"
	"bigcalc/internal/observ"
	"bigcalc/internal/progress"
	"bigcalc/internal/source"
	"bigcalc/internal/trace"
)

// DefaultOutput is the result file of a single-input run.
const DefaultOutput = "result.txt"

// StdinName is the input name that reads standard input.
const StdinName = "-"

var (
	ErrNoInput = errors.New("no input files")
	// ErrOutputNotDir is returned when several inputs share one output file.
	ErrOutputNotDir = errors.New("output must be a directory when several inputs are given")
	ErrOutputClash  = errors.New("two inputs map to the same output file")
)

// Request describes one batch run.
type Request struct {
	Inputs []string
	// Output is the result file (single input) or directory.
	Output string
	// Jobs limits how many files are processed at once; 0 means GOMAXPROCS.
	Jobs int

	Stdin io.Reader
	// Echo receives the console view of every record; nil disables it.
	Echo io.Writer

	FoldWidth      bool
	MaxLimbs       int
	MaxDiagnostics int

	Cache    *cache.Disk
	Progress progress.Sink
	Timer    *observ.Timer
}

// FileResult is the outcome of one input file.
type FileResult struct {
	Input  string
	Output string

	FileSet *source.FileSet
	Bag     *diag.Bag

	Records int
	Failed  int
	Cached  int
	// Truncated is set when the file ended inside a record.
	Truncated bool

	Timings progress.Timings
	// Err is a fatal problem (unreadable input, unwritable output,
	// cancellation); the result file was not written.
	Err error
}

// Result collects file results in input order.
type Result struct {
	Files []FileResult
}

// HasErrors reports whether any file failed, had a failed record or
// produced an error diagnostic, including ones cut by MaxDiagnostics.
func (r *Result) HasErrors() bool {
	for i := range r.Files {
		fr := &r.Files[i]
		if fr.Err != nil || fr.Failed > 0 || fr.Bag.HasErrors() {
			return true
		}
	}
	return false
}

// Fatal joins the fatal errors of all files.
func (r *Result) Fatal() error {
	var errs []error
	for i := range r.Files {
		if err := r.Files[i].Err; err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Files[i].Input, err))
		}
	}
	return errors.Join(errs...)
}

// Totals sums record counters over all files.
func (r *Result) Totals() (records, failed, cached int) {
	for i := range r.Files {
		records += r.Files[i].Records
		failed += r.Files[i].Failed
		cached += r.Files[i].Cached
	}
	return records, failed, cached
}

// Run processes every input of req. Files run in parallel, records of a
// file in order. The returned error is only set when the request itself
// is invalid or ctx was cancelled; per-file problems land in Result.
func Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Inputs) == 0 {
		return nil, ErrNoInput
	}
	outputs, err := OutputPaths(req.Inputs, req.Output)
	if err != nil {
		return nil, err
	}

	ctx, span := trace.Start(ctx, trace.ScopeRun, "batch")
	span.WithExtra("files", strconv.Itoa(len(req.Inputs)))
	defer span.End("")

	jobs := req.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	jobs = min(jobs, len(req.Inputs))
	if req.Timer != nil {
		phase := req.Timer.Begin("batch")
		defer func() {
			req.Timer.End(phase, fmt.Sprintf("files=%d jobs=%d", len(req.Inputs), jobs))
		}()
	}

	for _, in := range req.Inputs {
		progress.Emit(ctx, req.Progress, progress.Event{File: in, Stage: progress.StageLoad, Status: progress.StatusQueued})
	}

	// Результаты по индексу входа, мьютекс не нужен
	results := make([]FileResult, len(req.Inputs))
	echo := newOrderedEcho(req.Echo, len(req.Inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range req.Inputs {
		g.Go(func() error {
			var buf *bytes.Buffer
			if req.Echo != nil {
				buf = &bytes.Buffer{}
			}
			results[i] = runFile(gctx, &req, in, outputs[i], buf)
			echo.finish(i, buf)
			if errors.Is(results[i].Err, context.Canceled) || errors.Is(results[i].Err, context.DeadlineExceeded) {
				return results[i].Err
			}
			return nil
		})
	}
	err = g.Wait()
	return &Result{Files: results}, err
}

type fileRun struct {
	req  *Request
	res  *FileResult
	path string
}

func runFile(ctx context.Context, req *Request, input, output string, echo *bytes.Buffer) FileResult {
	res := FileResult{
		Input:   input,
		Output:  output,
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(req.MaxDiagnostics),
	}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	ctx, span := trace.Start(ctx, trace.ScopeFile, "file")
	span.WithExtra("path", input)
	fr := &fileRun{req: req, res: &res, path: input}
	defer func() {
		detail := "ok"
		if res.Err != nil {
			detail = res.Err.Error()
		}
		span.WithExtra("records", strconv.Itoa(res.Records)).End(detail)
	}()

	var file *source.File
	err := fr.stage(ctx, progress.StageLoad, func(context.Context) error {
		id, err := fr.load()
		if err != nil {
			res.Bag.Add(diag.NewPathError(diag.IOReadFailed, input, err.Error()))
			return err
		}
		file = res.FileSet.Get(id)
		return nil
	})
	if err != nil {
		res.Err = err
		return res
	}

	var parsed ParseResult
	_ = fr.stage(ctx, progress.StageParse, func(context.Context) error {
		parsed = Parse(file, diag.BagReporter{Bag: res.Bag})
		return nil
	})
	res.Truncated = parsed.Truncated

	var out bytes.Buffer
	err = fr.stage(ctx, progress.StageEval, func(ctx context.Context) error {
		return fr.eval(ctx, parsed.Records, &out, echo)
	})
	if err != nil {
		res.Err = err
		return res
	}

	err = fr.stage(ctx, progress.StageWrite, func(context.Context) error {
		// #nosec G306 -- result files are plain text for the user
		if err := os.WriteFile(output, out.Bytes(), 0o644); err != nil {
			res.Bag.Add(diag.NewPathError(diag.IOWriteFailed, output, err.Error()))
			return err
		}
		return nil
	})
	if err != nil {
		res.Err = err
	}
	return res
}

func (fr *fileRun) load() (source.FileID, error) {
	opts := source.LoadOptions{FoldWidth: fr.req.FoldWidth}
	if fr.path != StdinName {
		return fr.res.FileSet.LoadWith(fr.path, opts)
	}
	if fr.req.Stdin == nil {
		return 0, errors.New("standard input is not available")
	}
	data, err := io.ReadAll(fr.req.Stdin)
	if err != nil {
		return 0, err
	}
	return fr.res.FileSet.AddVirtualWith("<stdin>", data, opts), nil
}

func (fr *fileRun) eval(ctx context.Context, records []Record, out, echo *bytes.Buffer) error {
	ev := &Evaluator{MaxLimbs: fr.req.MaxLimbs, Cache: fr.req.Cache}
	r := diag.BagReporter{Bag: fr.res.Bag}
	total := len(records)
	step := max(1, total/100)

	for i := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := &records[i]
		o := ev.Eval(rec, r)
		WriteRecord(out, rec, o)
		if echo != nil {
			EchoRecord(echo, rec, o)
		}

		fr.res.Records++
		if o.Failed {
			fr.res.Failed++
		}
		if o.Cached {
			fr.res.Cached++
		}
		trace.Point(ctx, trace.ScopeRecord, "record", recordDetail(rec, o))

		if done := i + 1; done%step == 0 || done == total {
			progress.Emit(ctx, fr.req.Progress, progress.Event{
				File:   fr.path,
				Stage:  progress.StageEval,
				Status: progress.StatusWorking,
				Done:   done,
				Total:  total,
			})
		}
	}

	if t := fr.req.Timer; t != nil {
		t.Count("records", int64(fr.res.Records))
		t.Count("failed", int64(fr.res.Failed))
		if fr.req.Cache != nil {
			t.Count("cached", int64(fr.res.Cached))
		}
	}
	return nil
}

// stage runs fn as one progress stage: it reports start and end, traces
// the stage and records its duration.
func (fr *fileRun) stage(ctx context.Context, stage progress.Stage, fn func(context.Context) error) error {
	progress.Emit(ctx, fr.req.Progress, progress.Event{File: fr.path, Stage: stage, Status: progress.StatusWorking})
	sctx, span := trace.Start(ctx, trace.ScopeStage, string(stage))
	started := time.Now()

	err := fn(sctx)

	elapsed := time.Since(started)
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	span.End(detail)
	fr.res.Timings.Set(stage, elapsed)
	if fr.req.Timer != nil {
		fr.req.Timer.Add(string(stage), elapsed)
	}

	status := progress.StatusDone
	if err != nil {
		status = progress.StatusError
	}
	progress.Emit(ctx, fr.req.Progress, progress.Event{File: fr.path, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
	return err
}

func recordDetail(rec *Record, o Outcome) string {
	status := "ok"
	switch {
	case o.Failed:
		status = "failed"
	case o.Cached:
		status = "cached"
	}
	return fmt.Sprintf("line %d %s %s", rec.Line, rec.HeaderText(), status)
}

// OutputPaths picks the result file of every input. One input writes to
// output (DefaultOutput when empty). Several inputs write <input>.out next
// to each input, or <dir>/<name>.out when output is a directory.
func OutputPaths(inputs []string, output string) ([]string, error) {
	dir := ""
	switch {
	case strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(filepath.Separator)):
		if err := os.MkdirAll(output, 0o755); err != nil {
			return nil, err
		}
		dir = output
	case output != "":
		if st, err := os.Stat(output); err == nil && st.IsDir() {
			dir = output
		}
	}

	if len(inputs) == 1 && dir == "" {
		return []string{cmp.Or(output, DefaultOutput)}, nil
	}
	if dir == "" && output != "" {
		return nil, ErrOutputNotDir
	}

	paths := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		name := in
		if in == StdinName {
			name = "stdin"
		}
		p := name + ".out"
		if dir != "" {
			p = filepath.Join(dir, filepath.Base(name)+".out")
		}
		p = filepath.Clean(p)
		if prev, ok := seen[p]; ok {
			return nil, fmt.Errorf("%w: %s and %s both write %s", ErrOutputClash, prev, in, p)
		}
		seen[p] = in
		paths[i] = p
	}
	return paths, nil
}

// orderedEcho writes per-file echo buffers in input order as soon as
// every earlier file has finished.
type orderedEcho struct {
	mu    sync.Mutex
	w     io.Writer
	bufs  []*bytes.Buffer
	ready []bool
	next  int
}

func newOrderedEcho(w io.Writer, n int) *orderedEcho {
	return &orderedEcho{w: w, bufs: make([]*bytes.Buffer, n), ready: make([]bool, n)}
}

func (o *orderedEcho) finish(i int, buf *bytes.Buffer) {
	if o.w == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.bufs[i] = buf
	o.ready[i] = true
	for o.next < len(o.ready) && o.ready[o.next] {
		if b := o.bufs[o.next]; b != nil {
			_, _ = o.w.Write(b.Bytes())
			o.bufs[o.next] = nil
		}
		o.next++
	}
}
