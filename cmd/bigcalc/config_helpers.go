package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bigcalc/internal/config"
	"bigcalc/internal/diag"
	"bigcalc/internal/diagfmt"
)

// loadConfig reads --config, or the nearest bigcalc.toml. Problems in the
// file are printed as diagnostics; only an unreadable file is an error.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}

	var (
		cfg   config.Config
		diags []diag.Diagnostic
	)
	if path != "" {
		cfg, diags, err = config.Load(path)
	} else {
		cfg, diags, err = config.Discover(".")
	}

	if len(diags) > 0 {
		bag := diag.NewBag(len(diags))
		for _, d := range diags {
			bag.Add(d)
		}
		diagfmt.Pretty(os.Stderr, bag, nil, diagfmt.PrettyOpts{Color: useColor(cmd, os.Stderr)})
	}
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
