package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	runTraceCleanup()
	return out.String(), err
}

func TestLintCommandJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.txt")
	writeFile(t, path, "Hello {{ name }}\n")

	out, err := execute(t, "lint", "--ui", "off", "--format", "json", "--color", "off", path)
	require.NoError(t, err)

	var res struct {
		Success bool `json:"success"`
		Summary struct {
			Tags int `json:"jinja_tags_count"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Summary.Tags)
}

func TestLintCommandFailureExitCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "{% if x %}\nbody\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "fine\n")

	out, err := execute(t, "lint", "--ui", "off", "--format", "short", "--color", "off", dir)
	var ee exitError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, 1, ee.code)
	assert.Contains(t, out, "a.txt:")
	assert.Contains(t, out, ": error ")
	assert.NotContains(t, out, "b.txt")
}

func TestLintCommandNoDocuments(t *testing.T) {
	_, err := execute(t, "lint", "--ui", "off", "--format", "short", t.TempDir())
	assert.EqualError(t, err, "no supported documents found")
}

func TestTagsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.txt")
	writeFile(t, path, "{%p if a %}{{ b }}{%p endif %}\n")

	out, err := execute(t, "tags", "--format", "json", path)
	require.NoError(t, err)
	var occs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &occs))
	require.Len(t, occs, 3)
	assert.Equal(t, "block_open", occs[0]["class"])
	assert.Equal(t, "p", occs[0]["prefix"])
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, "version", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"tool": "doclint"`)
}
