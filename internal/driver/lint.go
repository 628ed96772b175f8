package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"doclint/internal/extract"
	"doclint/internal/lint"
	"doclint/internal/pipeline"
	"doclint/internal/trace"
)

// Options configures a lint invocation over files.
type Options struct {
	Lint     lint.Options
	Jobs     int // 0 -> GOMAXPROCS
	Cache    *DiskCache
	Progress pipeline.ProgressSink
	// MaxFileSize rejects larger inputs before extraction; 0 means no limit.
	MaxFileSize int64
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Path   string
	Lines  []string // извлечённый текст, nil при ошибке извлечения или из кэша без текста
	Result lint.Result
	Cached bool
	// Err is set when the file could not be read; Result is then zero.
	Err error
}

// Runner lints documents with a shared linter and extractor.
type Runner struct {
	linter    *lint.Linter
	extractor *extract.Extractor
}

// NewRunner creates a runner. A nil extractor uses the defaults.
func NewRunner(l *lint.Linter, ex *extract.Extractor) *Runner {
	if ex == nil {
		ex = &extract.Extractor{}
	}
	return &Runner{linter: l, extractor: ex}
}

// Linter returns the underlying linter.
func (r *Runner) Linter() *lint.Linter { return r.linter }

// recordingExtractor keeps the extracted lines so callers can show source.
type recordingExtractor struct {
	ex    *extract.Extractor
	lines []string
}

func (x *recordingExtractor) Extract(ctx context.Context, name string, raw []byte) ([]string, error) {
	lines, err := x.ex.Extract(ctx, name, raw)
	x.lines = lines
	return lines, err
}

// LintBytes lints an in-memory document. Extraction problems end up inside
// the result, never as an error.
func (r *Runner) LintBytes(ctx context.Context, name string, raw []byte, opts Options) FileResult {
	var key Digest
	if opts.Cache != nil {
		key = CacheKey(raw, r.linter.Config(), opts.Lint)
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			pipeline.Emit(opts.Progress, name, pipeline.StageAssemble, pipeline.StatusDone, nil, 0)
			return FileResult{Path: name, Lines: payload.Lines, Result: payload.Result, Cached: true}
		}
	}

	l := r.linter
	if opts.Progress != nil {
		l = l.WithProgress(opts.Progress)
	}
	rec := &recordingExtractor{ex: r.extractor}
	res := l.LintDocument(ctx, name, raw, rec, opts.Lint)

	if opts.Cache != nil && ctx.Err() == nil {
		// ошибки записи кэша не влияют на результат
		if err := opts.Cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion, Lines: rec.lines, Result: res}); err != nil {
			trace.Note(ctx, trace.ScopeFile, "cache", "put failed: "+err.Error())
		}
	}
	return FileResult{Path: name, Lines: rec.lines, Result: res}
}

// LintFile reads path from disk and lints it.
func (r *Runner) LintFile(ctx context.Context, path string, opts Options) (FileResult, error) {
	raw, err := readLimited(path, opts.MaxFileSize)
	if err != nil {
		pipeline.Emit(opts.Progress, path, pipeline.StageExtract, pipeline.StatusError, err, 0)
		return FileResult{Path: path, Err: err}, err
	}
	return r.LintBytes(ctx, path, raw, opts), nil
}

func readLimited(path string, limit int64) ([]byte, error) {
	if limit > 0 {
		st, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if st.Size() > limit {
			return nil, fmt.Errorf("%s: file too large (%d > %d bytes)", path, st.Size(), limit)
		}
	}
	return os.ReadFile(path)
}

// LintPaths lints every supported document under paths in parallel. Results
// follow the order of CollectFiles. Files that could not be read carry Err
// and are also aggregated into the returned error.
func (r *Runner) LintPaths(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	files, walkErr := CollectFiles(paths)
	if len(files) == 0 {
		return nil, walkErr
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "lint_paths")
	span.WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")

	pipeline.EmitQueued(opts.Progress, files)

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			fr, _ := r.LintFile(gctx, path, opts)
			results[i] = fr
			if fr.Err == nil {
				pipeline.Emit(opts.Progress, path, pipeline.StageAssemble, pipeline.StatusDone, nil, time.Since(started))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	merr := walkErr
	for _, fr := range results {
		if fr.Err != nil {
			merr = multierror.Append(merr, fr.Err)
		}
	}
	return results, merr
}

// CollectFiles expands directories into supported documents (sorted, hidden
// entries and Word lock files skipped) and keeps explicit files as given.
// Duplicates are dropped. Unreadable paths are aggregated into the error.
func CollectFiles(paths []string) ([]string, error) {
	var (
		out  []string
		errs error
		seen = make(map[string]struct{})
	)
	add := func(p string) {
		key := filepath.Clean(p)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}

	for _, p := range paths {
		st, err := os.Stat(p)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if !st.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if path != p && strings.HasPrefix(name, ".") {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || strings.HasPrefix(name, "~$") || !extract.IsSupported(name) {
				return nil
			}
			found = append(found, path)
			return nil
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("walk %s: %w", p, err))
		}
		// детерминированный порядок
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, errs
}
