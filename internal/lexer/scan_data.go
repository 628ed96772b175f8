package lexer

import (
	"bytes"
	"fmt"

	"doclint/internal/diag"
	"doclint/internal/token"
)

const (
	openVar = iota
	openBlock
	openComment
)

// nearestOpener returns the offset and index of the closest opening delimiter
// at or after the cursor, or -1.
func (lx *Lexer) nearestOpener() (int, int) {
	openers := lx.opts.Delims.Openers()
	off := lx.cursor.Pos()
	best, which := -1, -1
	for i, d := range openers {
		pos := lx.nextOpen[i]
		if pos != -2 && pos < off {
			idx := bytes.Index(lx.cursor.Rest(), []byte(d))
			if idx < 0 {
				pos = -2 // больше не встретится
			} else {
				pos = off + idx
			}
			lx.nextOpen[i] = pos
		}
		if pos < 0 {
			continue
		}
		// при равенстве выигрывает более длинный разделитель
		if best < 0 || pos < best || (pos == best && len(d) > len(openers[which])) {
			best, which = pos, i
		}
	}
	return best, which
}

func (lx *Lexer) nextInData() token.Token {
	if lx.cursor.EOF() {
		return lx.eof()
	}

	pos, which := lx.nearestOpener()
	if pos < 0 {
		start := lx.cursor.Mark()
		lx.cursor.SkipToEnd()
		return lx.emit(token.Data, start)
	}
	if pos > lx.cursor.Pos() {
		start := lx.cursor.Mark()
		lx.cursor.Seek(pos)
		return lx.emit(token.Data, start)
	}

	switch which {
	case openComment:
		return lx.scanComment()
	case openVar:
		return lx.openTag(token.VarOpen, lx.opts.Delims.VarOpen, lx.opts.Delims.VarClose)
	default:
		return lx.openTag(token.BlockOpen, lx.opts.Delims.BlockOpen, lx.opts.Delims.BlockClose)
	}
}

func (lx *Lexer) openTag(kind token.Kind, open, closeDelim string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Advance(len(open))
	// whitespace control
	if b := lx.cursor.Peek(); b == '-' || b == '+' {
		lx.cursor.Bump()
	}
	tok := lx.emit(kind, start)

	lx.mode = modeTag
	lx.tagOpen = tok
	lx.tagClose = closeDelim
	lx.tagBroken = false
	lx.tagWords = 0
	lx.tagRaw = false
	return tok
}

func (lx *Lexer) scanComment() token.Token {
	d := lx.opts.Delims
	start := lx.cursor.Mark()
	lx.cursor.Advance(len(d.CommentOpen))
	idx := bytes.Index(lx.cursor.Rest(), []byte(d.CommentClose))
	if idx < 0 {
		openSp := lx.cursor.SpanFrom(start)
		lx.cursor.SkipToEnd()
		lx.errLex(diag.LexUnterminatedComment, openSp,
			fmt.Sprintf("missing end of comment tag, expected '%s'", d.CommentClose))
		return lx.emit(token.Comment, start)
	}
	lx.cursor.Advance(idx + len(d.CommentClose))
	return lx.emit(token.Comment, start)
}

// scanRaw consumes the body of a raw section up to the opener of its endraw tag.
func (lx *Lexer) scanRaw() token.Token {
	lx.mode = modeData
	start := lx.cursor.Mark()
	rest := lx.cursor.Rest()
	d := lx.opts.Delims

	from := 0
	for {
		idx := bytes.Index(rest[from:], []byte(d.BlockOpen))
		if idx < 0 {
			break
		}
		at := from + idx
		if isEndRaw(rest[at+len(d.BlockOpen):], d.BlockClose) {
			lx.cursor.Advance(at)
			return lx.emit(token.RawData, start)
		}
		from = at + len(d.BlockOpen)
	}

	lx.cursor.SkipToEnd()
	lx.errLex(diag.LexUnterminatedRaw, lx.tagOpen.Span, "missing end of raw directive, expected 'endraw'")
	return lx.emit(token.RawData, start)
}

// isEndRaw reports whether b (text after a block opener) is "[-+] endraw [-+]close".
func isEndRaw(b []byte, closeDelim string) bool {
	i := 0
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		i++
	}
	for i < len(b) && isSpaceByte(b[i]) {
		i++
	}
	if !bytes.HasPrefix(b[i:], []byte("endraw")) {
		return false
	}
	i += len("endraw")
	for i < len(b) && isSpaceByte(b[i]) {
		i++
	}
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		i++
	}
	return bytes.HasPrefix(b[i:], []byte(closeDelim))
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
