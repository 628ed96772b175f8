package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"doclint/internal/dialect"
	"doclint/internal/lint"
)

const configFileName = "doclint.toml"

// fileConfig mirrors doclint.toml. Only keys present in the file are applied.
type fileConfig struct {
	Lint   lintSection   `toml:"lint"`
	Server serverSection `toml:"server"`
}

type lintSection struct {
	MaxLineLength        int      `toml:"max_line_length"`
	FailOnWarnings       bool     `toml:"fail_on_warnings"`
	CheckTagMatching     bool     `toml:"check_tag_matching"`
	CheckNestedStructure bool     `toml:"check_nested_structure"`
	CheckUndefinedVars   bool     `toml:"check_undefined_vars"`
	Verbose              bool     `toml:"verbose"`
	MaxDepth             int      `toml:"max_depth"`
	Prefixes             []string `toml:"prefixes"`
	Jobs                 int      `toml:"jobs"`
}

type serverSection struct {
	Addr         string `toml:"addr"`
	GotenbergURL string `toml:"gotenberg_url"`
	MaxUploadMB  int    `toml:"max_upload_mb"`
}

// projectConfig is the effective doclint.toml after merging onto defaults.
type projectConfig struct {
	Path   string // "" when no file was found
	Lint   lint.Config
	Opts   lint.Options
	Jobs   int
	Server serverSection
}

func defaultProjectConfig() projectConfig {
	return projectConfig{
		Lint: lint.DefaultConfig(),
		Opts: lint.DefaultOptions(),
		Server: serverSection{
			Addr:        ":8000",
			MaxUploadMB: 50,
		},
	}
}

// findConfig walks up from startDir looking for doclint.toml.
func findConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadConfig reads an explicit path, or discovers doclint.toml from startDir.
func loadConfig(explicit, startDir string) (projectConfig, error) {
	cfg := defaultProjectConfig()
	path := explicit
	if path == "" {
		found, ok, err := findConfig(startDir)
		if err != nil {
			return cfg, err
		}
		if !ok {
			return cfg, nil
		}
		path = found
	}
	if err := cfg.merge(path); err != nil {
		return defaultProjectConfig(), err
	}
	return cfg, nil
}

func (c *projectConfig) merge(path string) error {
	var fc fileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	c.Path = path

	l := fc.Lint
	if meta.IsDefined("lint", "max_line_length") {
		c.Opts.MaxLineLength = l.MaxLineLength
	}
	if meta.IsDefined("lint", "fail_on_warnings") {
		c.Opts.FailOnWarnings = l.FailOnWarnings
	}
	if meta.IsDefined("lint", "check_tag_matching") {
		c.Opts.CheckTagMatching = l.CheckTagMatching
	}
	if meta.IsDefined("lint", "check_nested_structure") {
		c.Opts.CheckNestedStructure = l.CheckNestedStructure
	}
	if meta.IsDefined("lint", "check_undefined_vars") {
		c.Opts.CheckUndefinedVars = l.CheckUndefinedVars
	}
	if meta.IsDefined("lint", "verbose") {
		c.Opts.Verbose = l.Verbose
	}
	if meta.IsDefined("lint", "max_depth") {
		c.Lint.MaxDepth = l.MaxDepth
	}
	if meta.IsDefined("lint", "jobs") {
		c.Jobs = l.Jobs
	}
	if meta.IsDefined("lint", "prefixes") {
		set, err := dialect.NewSet(l.Prefixes...)
		if err != nil {
			return fmt.Errorf("%s: [lint].prefixes: %w", path, err)
		}
		c.Lint.Prefixes = set
	}
	if err := c.Opts.Validate(); err != nil {
		return fmt.Errorf("%s: [lint]: %w", path, err)
	}

	s := fc.Server
	if meta.IsDefined("server", "addr") {
		c.Server.Addr = strings.TrimSpace(s.Addr)
	}
	if meta.IsDefined("server", "gotenberg_url") {
		c.Server.GotenbergURL = strings.TrimSpace(s.GotenbergURL)
	}
	if meta.IsDefined("server", "max_upload_mb") {
		if s.MaxUploadMB < 1 {
			return fmt.Errorf("%s: [server].max_upload_mb must be positive", path)
		}
		c.Server.MaxUploadMB = s.MaxUploadMB
	}
	return nil
}

// configStart picks the directory to search doclint.toml from.
func configStart(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
