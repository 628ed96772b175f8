package lexer

import (
	"doclint/internal/diag"
	"doclint/internal/token"
)

// Поддержка: 0, 1_000, 1.5, 1e-3, 1.0e+10. Без ведущей точки и без префиксов базы.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	lx.digits()

	// дробная часть: только если за точкой цифра, иначе это доступ к атрибуту
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		lx.digits()
	}

	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		}
		lx.digits()
	}

	// "12abc": число, сразу за которым буква
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexBadNumber, sp, "invalid number literal '"+lx.text(sp)+"'")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	return lx.emit(kind, start)
}

func (lx *Lexer) digits() {
	for isDec(lx.cursor.Peek()) || (lx.cursor.Peek() == '_' && lx.underscoreBetweenDigits()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) underscoreBetweenDigits() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '_' && isDec(b1)
}
