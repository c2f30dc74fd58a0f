package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"bigcalc/internal/batch"
	"bigcalc/internal/bignum"
	"bigcalc/internal/version"
)

const versionTagline = "every digit, no rounding"

// versionInfo is what `bigcalc version` reports: build metadata plus the
// arithmetic limits this binary enforces.
type versionInfo struct {
	Version   string
	GitCommit string
	BuildDate string
	MaxLimbs  int // effective limit after bigcalc.toml
}

type versionOptions struct {
	format   string
	showHash bool
	showDate bool
}

type limitsPayload struct {
	MinBase   int    `json:"min_base"`
	MaxBase   int    `json:"max_base"`
	MaxLimbs  int    `json:"max_limbs"`
	MaxBits   int    `json:"max_bits"`
	Operators string `json:"operators"`
}

type versionPayload struct {
	Tool      string        `json:"tool"`
	Version   string        `json:"version"`
	Tagline   string        `json:"tagline"`
	Limits    limitsPayload `json:"limits"`
	GitCommit string        `json:"git_commit,omitempty"`
	BuildDate string        `json:"build_date,omitempty"`
}

var versionOpts struct {
	format string
	hash   bool
	date   bool
	full   bool
}

func init() {
	versionCmd.Flags().BoolVar(&versionOpts.hash, "hash", false, "include git commit hash")
	versionCmd.Flags().BoolVar(&versionOpts.date, "date", false, "include build timestamp")
	versionCmd.Flags().BoolVar(&versionOpts.full, "full", false, "include all build metadata")
	versionCmd.Flags().StringVar(&versionOpts.format, "format", "pretty", "output format (pretty|json)")
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show bigcalc build information and arithmetic limits",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := versionOptions{
			format:   strings.ToLower(strings.TrimSpace(versionOpts.format)),
			showHash: versionOpts.hash || versionOpts.full,
			showDate: versionOpts.date || versionOpts.full,
		}
		if opts.format != "pretty" && opts.format != "json" {
			return fmt.Errorf("unsupported format %q (must be pretty or json)", versionOpts.format)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		info := collectVersionInfo(debug.ReadBuildInfo)
		info.MaxLimbs = cfg.Limits.MaxLimbs

		if opts.format == "json" {
			return renderVersionJSON(cmd.OutOrStdout(), info, opts)
		}
		renderVersionPretty(cmd.OutOrStdout(), info, opts)
		return nil
	},
}

// collectVersionInfo prefers ldflags values and falls back to the VCS
// stamp `go build` records in the binary.
func collectVersionInfo(readBuild func() (*debug.BuildInfo, bool)) versionInfo {
	info := versionInfo{
		Version:   orDefault(version.Version, "dev"),
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
		MaxLimbs:  bignum.MaxLimbs,
	}
	if bi, ok := readBuild(); ok {
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && info.GitCommit == "":
				info.GitCommit = s.Value
			case s.Key == "vcs.time" && info.BuildDate == "":
				info.BuildDate = s.Value
			}
		}
	}
	return info
}

func limitsOf(info versionInfo) limitsPayload {
	return limitsPayload{
		MinBase:   bignum.MinBase,
		MaxBase:   bignum.MaxBase,
		MaxLimbs:  info.MaxLimbs,
		MaxBits:   info.MaxLimbs * 32,
		Operators: batch.Operators,
	}
}

func renderVersionPretty(out io.Writer, info versionInfo, opts versionOptions) {
	lim := limitsOf(info)
	fmt.Fprintf(out, "bigcalc %s: %s\n", version.Colored(info.Version), versionTagline)
	fmt.Fprintf(out, "bases:  %d..%d\n", lim.MinBase, lim.MaxBase)
	fmt.Fprintf(out, "size:   up to %s limbs (%s bits)\n", humanize.Comma(int64(lim.MaxLimbs)), humanize.Comma(int64(lim.MaxBits)))
	fmt.Fprintf(out, "ops:    %s\n", strings.Join(strings.Split(lim.Operators, ""), " "))
	if opts.showHash {
		fmt.Fprintf(out, "commit: %s\n", orDefault(info.GitCommit, "unknown"))
	}
	if opts.showDate {
		fmt.Fprintf(out, "built:  %s\n", orDefault(info.BuildDate, "unknown"))
	}
}

func renderVersionJSON(out io.Writer, info versionInfo, opts versionOptions) error {
	payload := versionPayload{
		Tool:    "bigcalc",
		Version: info.Version,
		Tagline: versionTagline,
		Limits:  limitsOf(info),
	}
	if opts.showHash {
		payload.GitCommit = orDefault(info.GitCommit, "unknown")
	}
	if opts.showDate {
		payload.BuildDate = orDefault(info.BuildDate, "unknown")
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

func orDefault(s, def string) string {
	return cmp.Or(strings.TrimSpace(s), def)
}
