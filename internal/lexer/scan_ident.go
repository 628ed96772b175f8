package lexer

import (
	"fmt"
	"unicode"

	"doclint/internal/diag"
	"doclint/internal/token"
)

const utf8RuneSelf = 0x80

const (
	clIdentStart uint8 = 1 << iota
	clDigit
)

// asciiClass classifies the ASCII bytes an identifier or number may use.
var asciiClass = func() (t [utf8RuneSelf]uint8) {
	t['_'] = clIdentStart
	for c := 'a'; c <= 'z'; c++ {
		t[c] = clIdentStart
		t[c-'a'+'A'] = clIdentStart
	}
	for c := '0'; c <= '9'; c++ {
		t[c] = clDigit
	}
	return t
}()

func isIdentStartByte(b byte) bool {
	return b < utf8RuneSelf && asciiClass[b]&clIdentStart != 0
}

func isIdentContinueByte(b byte) bool {
	return b < utf8RuneSelf && asciiClass[b] != 0
}

func isDec(b byte) bool {
	return b < utf8RuneSelf && asciiClass[b]&clDigit != 0
}

// Идентификаторы Jinja допускают буквы любых алфавитов.
func isIdentStartRune(r rune) bool    { return r == '_' || unicode.IsLetter(r) }
func isIdentContinueRune(r rune) bool { return isIdentStartRune(r) || unicode.IsDigit(r) }

// scanIdentOrKeyword читает идентификатор (ASCII или Unicode) и проверяет словарь операторов.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.cursor.PeekRune()
	if sz == 0 || !isIdentStartRune(r) {
		lx.cursor.BumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected char '%s'", lx.text(sp)))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.cursor.BumpRune()

	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r, _ := lx.cursor.PeekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.cursor.BumpRune()
	}

	tok := lx.emit(token.Ident, start)
	if k, ok := token.LookupKeyword(tok.Text); ok {
		tok.Kind = k
	}
	return tok
}
