package main

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"bigcalc/internal/batch"
	"bigcalc/internal/diag"
	"bigcalc/internal/diagfmt"
	"bigcalc/internal/source"
)

var evalCmd = &cobra.Command{
	Use:   "eval <op> <base> <a> <b>",
	Short: "Evaluate a single operation",
	Long: `Evaluate a op b in the given base and print the result in that base.
op is one of + * / % ^`,
	Example: `  bigcalc eval + 10 123 456
  bigcalc eval ^ 16 FF 20`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		if utf8.RuneCountInString(args[0]) != 1 {
			return fmt.Errorf("operation must be a single character, got %q", args[0])
		}
		if args[0][0] >= '0' && args[0][0] <= '9' {
			return fmt.Errorf("operation must not be a digit, got %q (use convert for base conversion)", args[0])
		}
		return evalRecord(cmd, fmt.Sprintf("%s %s\n\n%s\n\n%s\n", args[0], args[1], args[2], args[3]))
	},
}

var convertCmd = &cobra.Command{
	Use:     "convert <from> <to> <number>",
	Short:   "Convert a number between bases",
	Example: `  bigcalc convert 16 2 FF`,
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return evalRecord(cmd, fmt.Sprintf("%s %s\n\n%s\n", args[0], args[1], args[2]))
	},
}

// evalRecord runs one record built from command arguments through the
// batch parser and evaluator, so the diagnostics point at the arguments.
func evalRecord(cmd *cobra.Command, text string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("<args>", []byte(text)))
	bag := diag.NewBag(maxDiagnostics)
	reporter := diag.BagReporter{Bag: bag}

	parsed := batch.Parse(file, reporter)
	var out batch.Outcome
	if len(parsed.Records) == 1 {
		ev := &batch.Evaluator{MaxLimbs: cfg.Limits.MaxLimbs}
		out = ev.Eval(&parsed.Records[0], reporter)
	}

	if bag.Len() > 0 {
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     useColor(cmd, os.Stderr),
			ShowNotes: true,
		})
	}
	if len(parsed.Records) != 1 || out.Failed {
		return exitError{code: 1}
	}
	fmt.Fprintln(cmd.OutOrStdout(), out.Result)
	return nil
}
