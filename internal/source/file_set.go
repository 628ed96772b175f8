package source

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FileFlags describe where a document's text came from.
type FileFlags uint8

const (
	FileVirtual FileFlags = 1 << iota // upload, stdin or test input
)

// File is the extracted text of one document with its line index.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// LineIdx holds the offset of every '\n'.
	LineIdx []uint32
	Flags   FileFlags
}

// FileSet owns the documents of one lint run, so spans can name them by ID.
type FileSet struct {
	files []File
}

func NewFileSet() *FileSet { return &FileSet{} }

// Add stores content as a new document. Spans address text with uint32
// offsets; longer content panics.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	safecast.MustConv[uint32](len(content))
	id := FileID(safecast.MustConv[uint32](len(fs.files)))
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: indexLines(content),
		Flags:   flags,
	})
	return id
}

func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

func (fs *FileSet) Get(id FileID) *File {
	if int(id) >= len(fs.files) {
		panic(fmt.Sprintf("source: unknown file %d", id))
	}
	return &fs.files[id]
}

// Resolve turns both ends of sp into positions.
func (fs *FileSet) Resolve(sp Span) (start, end LineCol) {
	f := fs.Get(sp.File)
	return f.Position(sp.Start), f.Position(sp.End)
}

func indexLines(content []byte) []uint32 {
	var idx []uint32
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)) // #nosec G115 -- Add bounds the length
		}
	}
	return idx
}

// Position converts an offset. An offset on a '\n' belongs to the line
// the newline ends.
func (f *File) Position(off uint32) LineCol {
	// число переводов строки строго до off
	n, _ := slices.BinarySearch(f.LineIdx, off)
	line := uint32(n) + 1 // #nosec G115 -- n <= len(LineIdx)
	return LineCol{Line: line, Col: off - f.LineStart(int(line)) + 1}
}

// LineStart is the offset of 1-based line; lines past the end start at
// len(Content).
func (f *File) LineStart(line int) uint32 {
	switch {
	case line <= 1:
		return 0
	case line-2 < len(f.LineIdx):
		return f.LineIdx[line-2] + 1
	}
	return uint32(len(f.Content)) // #nosec G115 -- Add bounds the length
}

// LineCount is at least 1, an empty document has one empty line.
func (f *File) LineCount() int { return len(f.LineIdx) + 1 }

// GetLine returns 1-based line without its newline, "" when out of range.
func (f *File) GetLine(line uint32) string {
	n := int(line)
	if n < 1 || n > f.LineCount() {
		return ""
	}
	start := f.LineStart(n)
	end := uint32(len(f.Content)) // #nosec G115 -- Add bounds the length
	if n-1 < len(f.LineIdx) {
		end = f.LineIdx[n-1]
	}
	return string(f.Content[start:end])
}
