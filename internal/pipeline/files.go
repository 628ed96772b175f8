package pipeline

import (
	"path/filepath"
	"strings"
)

// DisplayName returns the progress row label of file: relative to base
// when it lies below it, slash separated.
func DisplayName(file, base string) string {
	path := filepath.Clean(file)
	if base != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		if rel, err := filepath.Rel(base, path); err == nil && rel != "." && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}
