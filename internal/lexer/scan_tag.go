package lexer

import (
	"fmt"

	"doclint/internal/diag"
	"doclint/internal/token"
)

// MarkTagBroken suppresses further lexer errors until the current tag ends.
// The parser calls it after reporting its own error for the tag.
func (lx *Lexer) MarkTagBroken() {
	if lx.mode == modeTag {
		lx.tagBroken = true
	}
}

// TagBroken reports whether an error was already reported for the current
// (or just closed) tag.
func (lx *Lexer) TagBroken() bool {
	return lx.tagBroken
}

func (lx *Lexer) nextInTag() token.Token {
	for {
		lx.skipSpaces()
		if lx.cursor.EOF() {
			return lx.unterminated(fmt.Sprintf("unexpected end of template, expected '%s'", lx.tagClose))
		}
		if len(lx.balance) == 0 {
			if tok, ok := lx.tryClose(); ok {
				return tok
			}
		}
		if pos, which := lx.nearestOpener(); pos == lx.cursor.Pos() {
			opener := lx.opts.Delims.Openers()[which]
			return lx.unterminated(fmt.Sprintf("unexpected '%s', tag is missing '%s'", opener, lx.tagClose))
		}
		ch := lx.cursor.Peek()
		if top := len(lx.balance) - 1; top >= 0 && isCloser(ch) && closerFor(lx.balance[top]) != ch {
			start := lx.cursor.Mark()
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			lx.cursor.Reset(start)
			lx.errLex(unclosedCode(lx.balance[top]),
				sp, fmt.Sprintf("unexpected '%c', expected '%c'", ch, closerFor(lx.balance[top])))
			lx.balance = lx.balance[:0]
			continue
		}
		break
	}

	tok := lx.scanTagToken()
	lx.trackBalance(tok)

	lx.tagWords++
	lx.tagRaw = lx.tagWords == 1 && lx.tagOpen.Kind == token.BlockOpen && tok.IsWord("raw")
	return tok
}

func (lx *Lexer) scanTagToken() token.Token {
	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdentOrKeyword()
	case isDec(ch):
		return lx.scanNumber()
	case ch == '"' || ch == '\'':
		return lx.scanString()
	default:
		return lx.scanOperatorOrPunct()
	}
}

// tryClose consumes the closing delimiter of the current tag, optionally
// preceded by a whitespace control marker. A var tag closed with the block
// closer (or the reverse) is reported and still treated as closed.
func (lx *Lexer) tryClose() (token.Token, bool) {
	d := lx.opts.Delims
	want, other := lx.tagClose, d.BlockClose
	if lx.tagOpen.Kind == token.BlockOpen {
		other = d.VarClose
	}

	start := lx.cursor.Mark()
	if b := lx.cursor.Peek(); b == '-' || b == '+' {
		lx.cursor.Bump()
		if !lx.cursor.HasPrefix(want) && !lx.cursor.HasPrefix(other) {
			lx.cursor.Reset(start)
			return token.Token{}, false
		}
	}

	switch {
	case lx.cursor.HasPrefix(want):
		lx.cursor.Advance(len(want))
	case lx.cursor.HasPrefix(other):
		lx.cursor.Advance(len(other))
		lx.errLex(diag.LexUnterminatedTag, lx.cursor.SpanFrom(start),
			fmt.Sprintf("expected '%s' but found '%s'", want, other))
	default:
		lx.cursor.Reset(start)
		return token.Token{}, false
	}

	tok := lx.emit(closeKind(lx.tagOpen.Kind), start)
	lx.endTag()
	return tok, true
}

// unterminated reports the open tag and returns a synthetic closer without
// consuming input.
func (lx *Lexer) unterminated(msg string) token.Token {
	lx.errLex(diag.LexUnterminatedTag, lx.tagOpen.Span, msg)
	tok := token.Token{Kind: closeKind(lx.tagOpen.Kind), Span: lx.emptySpan()}
	lx.tagRaw = false
	lx.endTag()
	return tok
}

func (lx *Lexer) endTag() {
	lx.balance = lx.balance[:0]
	if lx.tagRaw {
		lx.mode = modeRaw
		return
	}
	lx.mode = modeData
}

func (lx *Lexer) skipSpaces() {
	for !lx.cursor.EOF() && isSpaceByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) trackBalance(tok token.Token) {
	switch tok.Kind {
	case token.LParen:
		lx.balance = append(lx.balance, '(')
	case token.LBracket:
		lx.balance = append(lx.balance, '[')
	case token.LBrace:
		lx.balance = append(lx.balance, '{')
	case token.RParen, token.RBracket, token.RBrace:
		if n := len(lx.balance); n > 0 {
			lx.balance = lx.balance[:n-1]
		}
	}
}

func closeKind(open token.Kind) token.Kind {
	if open == token.VarOpen {
		return token.VarClose
	}
	return token.BlockClose
}

func isCloser(b byte) bool { return b == ')' || b == ']' || b == '}' }

func closerFor(open byte) byte {
	switch open {
	case '(':
		return ')'
	case '[':
		return ']'
	default:
		return '}'
	}
}

func unclosedCode(open byte) diag.Code {
	switch open {
	case '(':
		return diag.SynUnclosedParen
	case '[':
		return diag.SynUnclosedBracket
	default:
		return diag.SynUnclosedBrace
	}
}
