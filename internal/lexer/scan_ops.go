package lexer

import (
	"fmt"

	"doclint/internal/diag"
	"doclint/internal/token"
)

// Жадность: сначала 2-символьные, затем 1-символьные.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.cursor.Accept("**"):
		return lx.emit(token.StarStar, start)
	case lx.cursor.Accept("//"):
		return lx.emit(token.SlashSlash, start)
	case lx.cursor.Accept("=="):
		return lx.emit(token.EqEq, start)
	case lx.cursor.Accept("!="):
		return lx.emit(token.BangEq, start)
	case lx.cursor.Accept("<="):
		return lx.emit(token.LtEq, start)
	case lx.cursor.Accept(">="):
		return lx.emit(token.GtEq, start)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return lx.emit(token.Plus, start)
	case '-':
		return lx.emit(token.Minus, start)
	case '*':
		return lx.emit(token.Star, start)
	case '/':
		return lx.emit(token.Slash, start)
	case '%':
		return lx.emit(token.Percent, start)
	case '~':
		return lx.emit(token.Tilde, start)
	case '|':
		return lx.emit(token.Pipe, start)
	case '.':
		return lx.emit(token.Dot, start)
	case ',':
		return lx.emit(token.Comma, start)
	case ':':
		return lx.emit(token.Colon, start)
	case '=':
		return lx.emit(token.Assign, start)
	case '<':
		return lx.emit(token.Lt, start)
	case '>':
		return lx.emit(token.Gt, start)
	case '(':
		return lx.emit(token.LParen, start)
	case ')':
		return lx.emit(token.RParen, start)
	case '[':
		return lx.emit(token.LBracket, start)
	case ']':
		return lx.emit(token.RBracket, start)
	case '{':
		return lx.emit(token.LBrace, start)
	case '}':
		return lx.emit(token.RBrace, start)
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unexpected char '%s'", lx.text(sp)))
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
