// Package config loads bigcalc.toml, the optional per-directory defaults
// for batch runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"bigcalc/internal/bignum"
	"bigcalc/internal/diag"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = "bigcalc.toml"

type Config struct {
	Run    RunConfig    `toml:"run"`
	Cache  CacheConfig  `toml:"cache"`
	Limits LimitsConfig `toml:"limits"`

	// Path is where the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type RunConfig struct {
	Output    string `toml:"output"`
	Jobs      int    `toml:"jobs"`
	UI        string `toml:"ui"`
	Echo      bool   `toml:"echo"`
	FoldWidth bool   `toml:"fold_width"`
}

type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type LimitsConfig struct {
	MaxLimbs int `toml:"max_limbs"`
}

// Default returns the built-in settings used when no file is found.
func Default() Config {
	return Config{
		Run: RunConfig{
			Output: "result.txt",
			UI:     "auto",
			Echo:   true,
		},
		Limits: LimitsConfig{MaxLimbs: bignum.MaxLimbs},
	}
}

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Load decodes path over the defaults. Unknown keys become warnings,
// invalid values become errors; both are returned as diagnostics and
// the offending values are reset to their defaults.
// err is non-nil only when the file cannot be read or parsed.
func Load(path string) (Config, []diag.Diagnostic, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), []diag.Diagnostic{
			diag.NewPathError(diag.CfgParseFailed, path, fmt.Sprintf("failed to parse TOML: %v", err)),
		}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	var diags []diag.Diagnostic
	for _, key := range meta.Undecoded() {
		d := diag.NewPathError(diag.CfgUnknownKey, path, fmt.Sprintf("unknown key %q", key.String()))
		d.Severity = diag.SevWarning
		diags = append(diags, d)
	}
	diags = append(diags, cfg.validate()...)
	return cfg, diags, nil
}

// Discover finds and loads the nearest config, falling back to defaults.
func Discover(startDir string) (Config, []diag.Diagnostic, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Default(), nil, err
	}
	if !ok {
		return Default(), nil, nil
	}
	return Load(path)
}

func (c *Config) validate() []diag.Diagnostic {
	def := Default()
	var diags []diag.Diagnostic
	bad := func(key, format string, args ...any) {
		diags = append(diags, diag.NewPathError(diag.CfgInvalidValue, c.Path, key+": "+fmt.Sprintf(format, args...)))
	}

	if strings.TrimSpace(c.Run.Output) == "" {
		bad("run.output", "must not be empty")
		c.Run.Output = def.Run.Output
	}
	if c.Run.Jobs < 0 {
		bad("run.jobs", "must be >= 0, got %d", c.Run.Jobs)
		c.Run.Jobs = def.Run.Jobs
	}
	switch strings.ToLower(c.Run.UI) {
	case "auto", "on", "off":
		c.Run.UI = strings.ToLower(c.Run.UI)
	default:
		bad("run.ui", "expected auto|on|off, got %q", c.Run.UI)
		c.Run.UI = def.Run.UI
	}
	if c.Limits.MaxLimbs <= 0 || c.Limits.MaxLimbs > bignum.MaxLimbs {
		bad("limits.max_limbs", "must be in [1, %d], got %d", bignum.MaxLimbs, c.Limits.MaxLimbs)
		c.Limits.MaxLimbs = def.Limits.MaxLimbs
	}
	return diags
}

// CacheDir returns the configured cache directory, or the user cache
// directory joined with "bigcalc".
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		if filepath.IsAbs(c.Cache.Dir) || c.Path == "" {
			return c.Cache.Dir, nil
		}
		return filepath.Join(filepath.Dir(c.Path), c.Cache.Dir), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "bigcalc"), nil
}
