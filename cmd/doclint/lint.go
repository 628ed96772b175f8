package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"doclint/internal/diagfmt"
	"doclint/internal/driver"
	"doclint/internal/extract"
	"doclint/internal/lint"
	"doclint/internal/observ"
	"doclint/internal/trace"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <file|dir>...",
	Short: "Lint DOCX templates",
	Long: `Lint checks every .docx (and .txt) template under the given paths.
Directories are walked recursively. Exit status is 1 when any template fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	f := lintCmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|markdown)")
	f.Int("jobs", 0, "parallel files (0 = GOMAXPROCS)")
	f.Bool("cache", false, "reuse results for unchanged documents from the user cache dir")
	f.Bool("clear-cache", false, "drop cached results before linting")
	f.Bool("fail-on-warnings", false, "treat warnings as failures")
	f.Int("max-line-length", 200, "warn about lines longer than this")
	f.Int("max-depth", 10, "maximum block nesting depth")
	f.Bool("check-tag-matching", true, "check that block tags are paired")
	f.Bool("check-nested-structure", true, "check nesting depth")
	f.Bool("verbose", false, "include the full extracted text in JSON output")
	f.Bool("timings", false, "print per-stage timings to stderr")
	f.Int64("max-file-size", 50<<20, "skip documents larger than this many bytes")
	f.String("ui", "auto", "progress view (auto|on|off)")
}

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json", "markdown":
	default:
		return fmt.Errorf("unknown format %q (expected pretty|short|json|markdown)", format)
	}
	uiFlag, err := flags.GetString("ui")
	if err != nil {
		return err
	}

	cfg, err := loadLintConfig(cmd, args)
	if err != nil {
		return err
	}
	linter, err := lint.New(cfg.Lint)
	if err != nil {
		return fmt.Errorf("invalid lint config: %w", err)
	}
	runner := driver.NewRunner(linter, &extract.Extractor{})

	opts := driver.Options{Lint: cfg.Opts, Jobs: cfg.Jobs}
	if opts.MaxFileSize, err = flags.GetInt64("max-file-size"); err != nil {
		return err
	}
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}

	files, walkErr := driver.CollectFiles(args)
	if len(files) == 0 {
		if walkErr != nil {
			return walkErr
		}
		return errors.New("no supported documents found")
	}

	progress, err := wantProgress(uiFlag, len(files), traceToStderr(cmd))
	if err != nil {
		return err
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "lint")
	span.WithExtra("format", format)

	var results []driver.FileResult
	if progress {
		results, err = runLintWithUI(ctx, runner, "linting", files, opts)
	} else {
		results, err = runner.LintPaths(ctx, files, opts)
	}
	span.End("")
	if ctx.Err() != nil {
		return ctx.Err()
	}
	// ошибки чтения отдельных файлов печатаются ниже, а не прерывают вывод
	if err != nil && results == nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if walkErr != nil {
		fmt.Fprintln(stderr, walkErr)
	}
	if err := writeResults(cmd, stdout, format, results); err != nil {
		return err
	}
	if timings, _ := flags.GetBool("timings"); timings {
		printTimings(stderr, results)
	}

	failed := walkErr != nil
	for _, fr := range results {
		if fr.Err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", fr.Path, fr.Err)
			failed = true
			continue
		}
		if !fr.Result.Success {
			failed = true
		}
	}
	if failed {
		return exitError{code: 1}
	}
	return nil
}

// loadLintConfig merges doclint.toml with the flags the user actually set.
func loadLintConfig(cmd *cobra.Command, args []string) (projectConfig, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return projectConfig{}, err
	}
	cfg, err := loadConfig(explicit, configStart(args))
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("max-line-length") {
		cfg.Opts.MaxLineLength, _ = flags.GetInt("max-line-length")
	}
	if flags.Changed("fail-on-warnings") {
		cfg.Opts.FailOnWarnings, _ = flags.GetBool("fail-on-warnings")
	}
	if flags.Changed("check-tag-matching") {
		cfg.Opts.CheckTagMatching, _ = flags.GetBool("check-tag-matching")
	}
	if flags.Changed("check-nested-structure") {
		cfg.Opts.CheckNestedStructure, _ = flags.GetBool("check-nested-structure")
	}
	if flags.Changed("verbose") {
		cfg.Opts.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("max-depth") {
		cfg.Lint.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("jobs") {
		cfg.Jobs, _ = flags.GetInt("jobs")
	}
	if err := cfg.Opts.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	use, _ := cmd.Flags().GetBool("cache")
	drop, _ := cmd.Flags().GetBool("clear-cache")
	if !use && !drop {
		return nil, nil
	}
	cache, err := driver.OpenDiskCache("doclint")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if drop {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("clear cache: %w", err)
		}
	}
	if !use {
		return nil, nil
	}
	return cache, nil
}

func writeResults(cmd *cobra.Command, w io.Writer, format string, results []driver.FileResult) error {
	docs := make([]diagfmt.Document, 0, len(results))
	for _, fr := range results {
		if fr.Err != nil {
			continue
		}
		docs = append(docs, diagfmt.Document{Path: fr.Path, Lines: fr.Lines, Result: fr.Result})
	}
	base, _ := os.Getwd()

	switch format {
	case "json":
		opts := diagfmt.JSONOpts{BaseDir: base}
		if len(results) == 1 && len(docs) == 1 {
			return diagfmt.JSON(w, docs[0].Result, opts)
		}
		return diagfmt.JSONFiles(w, docs, opts)
	case "short":
		for _, doc := range docs {
			if err := diagfmt.Short(w, doc, diagfmt.ShortOpts{BaseDir: base}); err != nil {
				return err
			}
		}
	case "markdown":
		now := time.Now()
		for i, doc := range docs {
			if i > 0 {
				fmt.Fprint(w, "\n---\n\n")
			}
			if err := diagfmt.Markdown(w, doc, diagfmt.MarkdownOpts{Generated: now}); err != nil {
				return err
			}
		}
	default:
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		opts := diagfmt.PrettyOpts{
			Color:       color,
			BaseDir:     base,
			ShowSource:  true,
			ShowContext: true,
			ShowHelp:    true,
			ShowSummary: true,
		}
		for _, doc := range docs {
			if err := diagfmt.Pretty(w, doc, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func printTimings(w io.Writer, results []driver.FileResult) {
	var reports []observ.Report
	for _, fr := range results {
		if fr.Err != nil {
			continue
		}
		if fr.Cached {
			fmt.Fprintf(w, "%s: cached\n", fr.Path)
			continue
		}
		fmt.Fprintf(w, "%s %s", fr.Path, fr.Result.Timings)
		reports = append(reports, fr.Result.Timings)
	}
	if len(reports) > 1 {
		fmt.Fprintf(w, "all %d documents %s", len(reports), observ.Merge(reports...))
	}
}
