package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bigcalc/internal/batch"
	"bigcalc/internal/cache"
	"bigcalc/internal/config"
	"bigcalc/internal/diag"
	"bigcalc/internal/diagfmt"
	"bigcalc/internal/observ"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <input>...",
	Short: "Evaluate batch files of calculation records",
	Long: `Evaluate every record of the input files and write the results.
A single input writes result.txt (or -o); several inputs write <input>.out,
or <dir>/<name>.out when -o names a directory. Use - to read standard input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	runCmd.Flags().StringP("output", "o", "", "output file, or directory for several inputs")
	runCmd.Flags().Int("jobs", 0, "max files processed in parallel (0=auto)")
	runCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	runCmd.Flags().Bool("no-echo", false, "do not echo records to stdout")
	runCmd.Flags().String("format", "pretty", "diagnostics format (pretty|json|short)")
	runCmd.Flags().Bool("cache", false, "reuse results stored by earlier runs")
	runCmd.Flags().Bool("strict", false, "exit with status 1 when any record fails")
	runCmd.Flags().Bool("fold-width", false, "read full-width digits as ASCII")
	runCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	runCmd.Flags().Bool("fullpath", false, "emit absolute file paths in diagnostics")
}

type runOptions struct {
	format    string
	strict    bool
	quiet     bool
	timings   bool
	withNotes bool
	pathMode  diagfmt.PathMode
	ui        uiMode
}

// runBatch executes the "run" command. Per-record failures are reported
// but keep the exit status at 0 unless --strict is set; unreadable inputs
// and unwritable outputs exit with 1.
func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := readRunOptions(cmd, cfg)
	if err != nil {
		return err
	}
	req, err := buildRequest(cmd, cfg, args, opts)
	if err != nil {
		return err
	}

	// с TUI эхо копится и печатается после
	var echoBuf bytes.Buffer
	useTUI := !opts.quiet && shouldUseTUI(opts.ui, args)
	if useTUI && req.Echo != nil {
		req.Echo = &echoBuf
	}

	var res *batch.Result
	if useTUI {
		res, err = runBatchWithUI(cmd.Context(), "bigcalc run", req)
	} else {
		res, err = batch.Run(cmd.Context(), req)
	}
	if res == nil {
		return err
	}
	if echoBuf.Len() > 0 {
		_, _ = os.Stdout.Write(echoBuf.Bytes())
	}

	if renderErr := renderDiagnostics(cmd, res, opts); renderErr != nil {
		return renderErr
	}
	if !opts.quiet {
		printRunSummary(os.Stderr, res, req.Cache)
	}
	if opts.timings {
		printTimings(os.Stderr, res, req.Timer)
	}
	if err != nil {
		return err
	}

	if fatal := res.Fatal(); fatal != nil {
		dumpTraceRing(cmd, os.Stderr)
		return exitError{code: 1}
	}
	if opts.strict && res.HasErrors() {
		dumpTraceRing(cmd, os.Stderr)
		return exitError{code: 1}
	}
	return nil
}

func readRunOptions(cmd *cobra.Command, cfg config.Config) (runOptions, error) {
	var opts runOptions
	var err error
	flags := cmd.Flags()

	if opts.format, err = flags.GetString("format"); err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch opts.format {
	case "pretty", "json", "short":
	default:
		return opts, fmt.Errorf("unknown format: %s", opts.format)
	}
	if opts.strict, err = flags.GetBool("strict"); err != nil {
		return opts, fmt.Errorf("failed to get strict flag: %w", err)
	}
	if opts.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return opts, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if fullPath {
		opts.pathMode = diagfmt.PathModeAbsolute
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}

	uiValue := cfg.Run.UI
	if flags.Changed("ui") {
		if uiValue, err = flags.GetString("ui"); err != nil {
			return opts, fmt.Errorf("failed to get ui flag: %w", err)
		}
	}
	if opts.ui, err = readUIMode(uiValue); err != nil {
		return opts, err
	}
	return opts, nil
}

func buildRequest(cmd *cobra.Command, cfg config.Config, inputs []string, opts runOptions) (batch.Request, error) {
	flags := cmd.Flags()
	req := batch.Request{
		Inputs:    inputs,
		Jobs:      cfg.Run.Jobs,
		Stdin:     os.Stdin,
		FoldWidth: cfg.Run.FoldWidth,
		MaxLimbs:  cfg.Limits.MaxLimbs,
	}

	var err error
	if flags.Changed("output") {
		if req.Output, err = flags.GetString("output"); err != nil {
			return req, fmt.Errorf("failed to get output flag: %w", err)
		}
	} else if len(inputs) == 1 {
		req.Output = cfg.Run.Output
	}
	if flags.Changed("jobs") {
		if req.Jobs, err = flags.GetInt("jobs"); err != nil {
			return req, fmt.Errorf("failed to get jobs flag: %w", err)
		}
	}
	fold, err := flags.GetBool("fold-width")
	if err != nil {
		return req, fmt.Errorf("failed to get fold-width flag: %w", err)
	}
	req.FoldWidth = req.FoldWidth || fold
	if req.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return req, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	noEcho, err := flags.GetBool("no-echo")
	if err != nil {
		return req, fmt.Errorf("failed to get no-echo flag: %w", err)
	}
	// JSON уходит в stdout, эхо бы его испортило
	if cfg.Run.Echo && !noEcho && !opts.quiet && opts.format != "json" {
		req.Echo = os.Stdout
	}

	useCache, err := flags.GetBool("cache")
	if err != nil {
		return req, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if useCache || cfg.Cache.Enabled {
		req.Cache = openCache(cfg)
	}
	if opts.timings {
		req.Timer = observ.NewTimer()
	}
	return req, nil
}

// openCache returns nil (no cache) when the directory is unusable; the
// run itself does not depend on it.
func openCache(cfg config.Config) *cache.Disk {
	dir, err := cfg.CacheDir()
	if err == nil {
		var disk *cache.Disk
		if disk, err = cache.Open(dir); err == nil {
			return disk
		}
	}
	bag := diag.NewBag(1)
	d := diag.NewPathError(diag.IOCacheFailed, dir, "result cache disabled: "+err.Error())
	d.Severity = diag.SevWarning
	bag.Add(d)
	diagfmt.Pretty(os.Stderr, bag, nil, diagfmt.PrettyOpts{Color: !color.NoColor})
	return nil
}

func renderDiagnostics(cmd *cobra.Command, res *batch.Result, opts runOptions) error {
	switch opts.format {
	case "json":
		jsonOpts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
		}
		var all diagfmt.DiagnosticsOutput
		all.Diagnostics = []diagfmt.DiagnosticJSON{}
		for i := range res.Files {
			fr := &res.Files[i]
			fr.Bag.Sort()
			out := diagfmt.BuildDiagnosticsOutput(fr.Bag, fr.FileSet, jsonOpts)
			all.Diagnostics = append(all.Diagnostics, out.Diagnostics...)
			all.Count += out.Count
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(all); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	case "short":
		for i := range res.Files {
			fr := &res.Files[i]
			if out := diag.FormatShort(fr.Bag.Items(), fr.FileSet, opts.withNotes); out != "" {
				fmt.Fprintln(os.Stderr, out)
			}
		}
	default:
		prettyOpts := diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			Context:   2,
			PathMode:  opts.pathMode,
			ShowNotes: opts.withNotes,
		}
		for i := range res.Files {
			fr := &res.Files[i]
			fr.Bag.Sort()
			diagfmt.Pretty(os.Stderr, fr.Bag, fr.FileSet, prettyOpts)
			if n := fr.Bag.Dropped(); n > 0 {
				fmt.Fprintf(os.Stderr, "%s: %s more diagnostics not shown (--max-diagnostics)\n", fr.Input, humanize.Comma(int64(n)))
			}
		}
	}
	return nil
}

func printRunSummary(w io.Writer, res *batch.Result, disk *cache.Disk) {
	records, failed, cached := res.Totals()
	fmt.Fprintf(w, "%s records in %s files, %s failed",
		humanize.Comma(int64(records)), humanize.Comma(int64(len(res.Files))), humanize.Comma(int64(failed)))
	if disk != nil {
		fmt.Fprintf(w, ", %s from cache", humanize.Comma(int64(cached)))
	}
	fmt.Fprintln(w)
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Err == nil {
			fmt.Fprintf(w, "  %s -> %s\n", fr.Input, fr.Output)
		}
	}
}
