package lexer

import (
	"bytes"
	"unicode/utf8"

	"fortio.org/safecast"

	"doclint/internal/source"
)

// Cursor walks the extracted document text byte by byte. Offsets are byte
// offsets into the file, the form spans use.
type Cursor struct {
	file source.FileID
	src  []byte
	off  int
}

func NewCursor(f *source.File) Cursor {
	return Cursor{file: f.ID, src: f.Content}
}

func (c *Cursor) EOF() bool { return c.off >= len(c.src) }

// Offset is the current position as a span offset.
func (c *Cursor) Offset() uint32 { return safecast.MustConv[uint32](c.off) }

// Pos is the current position as a slice index.
func (c *Cursor) Pos() int { return c.off }

// Seek moves to pos, clamped to the text.
func (c *Cursor) Seek(pos int) { c.off = min(max(pos, 0), len(c.src)) }

// SkipToEnd moves past the last byte.
func (c *Cursor) SkipToEnd() { c.off = len(c.src) }

// Peek returns the current byte or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.src[c.off]
}

// Peek2 returns the current and the next byte; ok is false when fewer
// than two are left.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.off+1 >= len(c.src) {
		return 0, 0, false
	}
	return c.src[c.off], c.src[c.off+1], true
}

// Bump consumes one byte and returns it, 0 at EOF.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.off++
	}
	return b
}

// PeekRune decodes the rune at the cursor; size is 0 at EOF.
func (c *Cursor) PeekRune() (r rune, size int) {
	switch {
	case c.EOF():
		return utf8.RuneError, 0
	case c.src[c.off] < utf8.RuneSelf:
		return rune(c.src[c.off]), 1
	}
	return utf8.DecodeRune(c.src[c.off:])
}

// BumpRune consumes one rune; broken UTF-8 is consumed one byte at a time.
func (c *Cursor) BumpRune() {
	_, size := c.PeekRune()
	c.off += size
}

// Rest is the unread text, nil at EOF.
func (c *Cursor) Rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.src[c.off:]
}

func (c *Cursor) HasPrefix(s string) bool {
	return s != "" && bytes.HasPrefix(c.Rest(), []byte(s))
}

// Accept consumes s if the unread text starts with it.
func (c *Cursor) Accept(s string) bool {
	if !c.HasPrefix(s) {
		return false
	}
	c.off += len(s)
	return true
}

// Advance moves n bytes forward, stopping at EOF.
func (c *Cursor) Advance(n int) { c.Seek(c.off + n) }

// Eat consumes b if it is the current byte.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.off] != b {
		return false
	}
	c.off++
	return true
}

// Mark remembers a position for SpanFrom and Reset.
type Mark int

func (c *Cursor) Mark() Mark { return Mark(c.off) }

// SpanFrom covers the bytes read since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.file,
		Start: safecast.MustConv[uint32](int(m)),
		End:   c.Offset(),
	}
}

func (c *Cursor) Reset(m Mark) { c.off = int(m) }
