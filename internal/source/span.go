package source

import "fmt"

// FileID indexes a document inside its FileSet.
type FileID uint32

// Span is a byte range [Start, End) of one document's extracted text.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// At is the empty span at off.
func At(file FileID, off uint32) Span {
	return Span{File: file, Start: off, End: off}
}

func (s Span) Empty() bool { return s.End <= s.Start }

func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

// Cover joins two spans of the same file; spans of other files are ignored.
func (s Span) Cover(o Span) Span {
	if o.File == s.File {
		s.Start, s.End = min(s.Start, o.Start), max(s.End, o.End)
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// LineCol is a 1-based position. Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
