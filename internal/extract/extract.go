// Package extract pulls template text out of documents: DOCX containers
// and plain-text templates.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedFormat is wrapped by Extract for inputs that are neither
// DOCX nor a known text template.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Error is a failure to read a document container.
type Error struct {
	Name string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Failed to extract content from %s: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

const zipMagic = "PK\x03\x04"

// DefaultMaxPartSize caps a single decompressed XML part.
const DefaultMaxPartSize = 64 << 20

// Extractor turns a document into ordered, non-blank lines of text.
// The zero value is ready to use.
type Extractor struct {
	// MaxPartSize limits each decompressed part; 0 means DefaultMaxPartSize.
	MaxPartSize int64
}

// textExtensions are read as plain templates.
var textExtensions = map[string]struct{}{
	".txt": {}, ".j2": {}, ".jinja": {}, ".jinja2": {}, ".tmpl": {}, ".md": {},
}

// IsSupported reports whether name has an extension Extract understands.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".docx" {
		return true
	}
	_, ok := textExtensions[ext]
	return ok
}

// Extract dispatches on the content and the name's extension. DOCX parts
// are read in the order body paragraphs, table cells, headers, footers.
// Every returned part is NFC-normalized; blank parts are dropped for DOCX.
func (x *Extractor) Extract(ctx context.Context, name string, raw []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case ext == ".docx" || bytes.HasPrefix(raw, []byte(zipMagic)):
		parts, err := x.extractDocx(ctx, raw)
		if err != nil {
			return nil, &Error{Name: name, Err: err}
		}
		return normalize(parts), nil
	default:
		if _, ok := textExtensions[ext]; !ok {
			return nil, &Error{Name: name, Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
		}
		return normalize(splitText(raw)), nil
	}
}

func (x *Extractor) maxPart() int64 {
	if x == nil || x.MaxPartSize <= 0 {
		return DefaultMaxPartSize
	}
	return x.MaxPartSize
}

// splitText drops a UTF-8 BOM and splits on LF or CRLF.
func splitText(raw []byte) []string {
	raw = bytes.TrimPrefix(raw, []byte("\xEF\xBB\xBF"))
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	return strings.Split(text, "\n")
}

func normalize(parts []string) []string {
	for i, p := range parts {
		if !norm.NFC.IsNormalString(p) {
			parts[i] = norm.NFC.String(p)
		}
	}
	return parts
}
