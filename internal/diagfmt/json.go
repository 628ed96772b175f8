package diagfmt

import (
	"encoding/json"
	"io"

	"doclint/internal/lint"
)

// FileJSON is one document inside a multi-file JSON output.
type FileJSON struct {
	Path   string      `json:"path"`
	Result lint.Result `json:"result"`
}

// FilesOutput is the root of multi-file JSON output.
type FilesOutput struct {
	Files  []FileJSON `json:"files"`
	Count  int        `json:"count"`
	Failed int        `json:"failed"`
}

// BuildFilesOutput collects documents without serialising them.
func BuildFilesOutput(docs []Document, opts JSONOpts) FilesOutput {
	out := FilesOutput{Files: make([]FileJSON, 0, len(docs))}
	for _, d := range docs {
		out.Files = append(out.Files, FileJSON{
			Path:   DisplayPath(d.Path, opts.PathMode, opts.BaseDir),
			Result: d.Result,
		})
		if !d.Result.Success {
			out.Failed++
		}
	}
	out.Count = len(out.Files)
	return out
}

// JSON writes a single result in the API's LintResult shape.
func JSON(w io.Writer, res lint.Result, opts JSONOpts) error {
	return encode(w, res, opts)
}

// JSONFiles writes several results under a files array.
func JSONFiles(w io.Writer, docs []Document, opts JSONOpts) error {
	return encode(w, BuildFilesOutput(docs, opts), opts)
}

func encode(w io.Writer, v any, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	if !opts.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
