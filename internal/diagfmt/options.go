package diagfmt

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"doclint/internal/lint"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long absolute ones to the basename.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// Document is one linted file as the formatters see it.
type Document struct {
	Path   string
	Lines  []string // извлечённый текст; может быть nil
	Result lint.Result
}

// PrettyOpts configures pretty-printing of a result.
type PrettyOpts struct {
	Color       bool
	PathMode    PathMode
	BaseDir     string
	ShowSource  bool // строка документа с кареткой
	ShowContext bool // контекст из результата, когда строки нет
	ShowHelp    bool
	ShowSummary bool
}

// ShortOpts configures the one-line-per-finding output.
type ShortOpts struct {
	PathMode PathMode
	BaseDir  string
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Compact  bool
}

// MarkdownOpts configures the markdown report.
type MarkdownOpts struct {
	// Generated is the timestamp printed in the header; zero means now.
	Generated time.Time
}

// DisplayPath formats path according to mode. Relative paths that would
// climb out of baseDir stay absolute.
func DisplayPath(path string, mode PathMode, baseDir string) string {
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if rel, ok := relativeTo(path, baseDir); ok {
			return rel
		}
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeBasename:
		return filepath.Base(path)
	default:
		// длинные абсолютные пути сокращаем до имени файла
		if len(path) >= 40 && filepath.IsAbs(path) {
			return filepath.Base(path)
		}
	}
	return path
}

func relativeTo(path, baseDir string) (string, bool) {
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		baseDir = wd
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
