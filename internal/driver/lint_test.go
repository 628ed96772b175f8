package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclint/internal/lint"
	"doclint/internal/pipeline"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	l, err := lint.New(lint.DefaultConfig())
	require.NoError(t, err)
	return NewRunner(l, nil)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func defaultOptions() Options {
	return Options{Lint: lint.DefaultOptions(), Jobs: 2}
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.j2"), "x")
	writeFile(t, filepath.Join(dir, "a.docx"), "x")
	writeFile(t, filepath.Join(dir, "sub", "c.txt"), "x")
	writeFile(t, filepath.Join(dir, "image.png"), "x")
	writeFile(t, filepath.Join(dir, "~$a.docx"), "x")
	writeFile(t, filepath.Join(dir, ".hidden", "d.j2"), "x")
	explicit := filepath.Join(dir, "image.png")

	files, err := CollectFiles([]string{dir, explicit, filepath.Join(dir, "a.docx")})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.docx"),
		filepath.Join(dir, "b.j2"),
		filepath.Join(dir, "sub", "c.txt"),
		explicit,
	}, files)
}

func TestCollectFilesAggregatesErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ok.j2"), "x")

	files, err := CollectFiles([]string{filepath.Join(dir, "missing1"), dir, filepath.Join(dir, "missing2")})
	require.Error(t, err)
	assert.Len(t, files, 1)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 2)
}

func TestLintPathsOrderAndResults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "1_ok.j2"), "Hello {{ name }}\n{% if a %}x{% endif %}")
	writeFile(t, filepath.Join(dir, "2_bad.j2"), "{% if a %}\n{% endfor %}")
	writeFile(t, filepath.Join(dir, "3_empty.txt"), "   ")

	var (
		mu     sync.Mutex
		events []pipeline.Event
	)
	opts := defaultOptions()
	opts.Progress = pipeline.FuncSink(func(ev pipeline.Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	})

	results, err := newRunner(t).LintPaths(context.Background(), []string{dir}, opts)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "1_ok.j2", filepath.Base(results[0].Path))
	assert.True(t, results[0].Result.Success)
	assert.Equal(t, []string{"Hello {{ name }}", "{% if a %}x{% endif %}"}, results[0].Lines)

	assert.False(t, results[1].Result.Success)
	require.NotEmpty(t, results[1].Result.Errors)
	assert.Equal(t, lint.KindMismatchedTag, results[1].Result.Errors[0].Kind)

	require.Len(t, results[2].Result.Errors, 1)
	assert.Equal(t, lint.KindDocument, results[2].Result.Errors[0].Kind)

	queued := 0
	for _, ev := range events {
		if ev.Status == pipeline.StatusQueued {
			queued++
		}
	}
	assert.Equal(t, 3, queued)
}

func TestLintPathsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "big.j2"), "0123456789")

	opts := defaultOptions()
	opts.MaxFileSize = 4
	results, err := newRunner(t).LintPaths(context.Background(), []string{dir}, opts)
	require.Error(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
	assert.Contains(t, err.Error(), "file too large")
}

func TestLintBytesUnsupported(t *testing.T) {
	fr := newRunner(t).LintBytes(context.Background(), "photo.png", []byte("\x89PNG"), defaultOptions())
	require.Len(t, fr.Result.Errors, 1)
	assert.Equal(t, lint.KindDocument, fr.Result.Errors[0].Kind)
	assert.Contains(t, fr.Result.Errors[0].Message, "Failed to extract content from photo.png")
	assert.Nil(t, fr.Lines)
}

func TestCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)

	r := newRunner(t)
	opts := defaultOptions()
	opts.Cache = cache
	raw := []byte("{% if a %}\n{{ b }}")

	first := r.LintBytes(context.Background(), "t.j2", raw, opts)
	assert.False(t, first.Cached)

	second := r.LintBytes(context.Background(), "t.j2", raw, opts)
	require.True(t, second.Cached)
	assert.Equal(t, first.Lines, second.Lines)
	assert.Equal(t, first.Result.Errors, second.Result.Errors)
	assert.Equal(t, first.Result.Summary, second.Result.Summary)
	assert.Equal(t, *first.Result.Preview, *second.Result.Preview)

	// другие опции, другой ключ
	opts.Lint.CheckTagMatching = false
	third := r.LintBytes(context.Background(), "t.j2", raw, opts)
	assert.False(t, third.Cached)
	assert.Empty(t, third.Result.Errors)

	require.NoError(t, cache.DropAll())
	opts.Lint.CheckTagMatching = true
	assert.False(t, r.LintBytes(context.Background(), "t.j2", raw, opts).Cached)
}

func TestCacheSchemaMismatchIsMiss(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	require.NoError(t, err)
	var key Digest
	key[0] = 1
	require.NoError(t, cache.Put(key, &DiskPayload{Schema: diskCacheSchemaVersion + 1}))

	var out DiskPayload
	ok, err := cache.Get(key, &out)
	require.NoError(t, err)
	assert.False(t, ok)

	var nilCache *DiskCache
	ok, err = nilCache.Get(key, &out)
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.NoError(t, nilCache.Put(key, &out))
}

func TestCacheKeyDependsOnConfig(t *testing.T) {
	raw := []byte("x")
	cfg := lint.DefaultConfig()
	opts := lint.DefaultOptions()
	k1 := CacheKey(raw, cfg, opts)
	assert.Equal(t, k1, CacheKey(raw, cfg, opts))

	cfg.MaxDepth = 3
	assert.NotEqual(t, k1, CacheKey(raw, cfg, opts))
	assert.NotEqual(t, k1, CacheKey([]byte("y"), lint.DefaultConfig(), opts))
}
