package diagfmt

import (
	"fmt"
	"io"
)

// Short prints one line per finding:
// <path>:<line>:<col>: <severity> <kind>: <message>
func Short(w io.Writer, doc Document, opts ShortOpts) error {
	path := DisplayPath(doc.Path, opts.PathMode, opts.BaseDir)
	for _, e := range doc.Result.Errors {
		if _, err := fmt.Fprintf(w, "%s: error %s: %s\n", location(path, e.Line, e.Column), e.Kind, e.Message); err != nil {
			return err
		}
	}
	for _, wn := range doc.Result.Warnings {
		if _, err := fmt.Fprintf(w, "%s: warning %s: %s\n", location(path, wn.Line, wn.Column), wn.Kind, wn.Message); err != nil {
			return err
		}
	}
	return nil
}

// location renders path[:line[:col]].
func location(path string, line, col *int) string {
	switch {
	case line == nil:
		return path
	case col == nil:
		return fmt.Sprintf("%s:%d", path, *line)
	default:
		return fmt.Sprintf("%s:%d:%d", path, *line, *col)
	}
}
