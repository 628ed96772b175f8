package parser

import (
	"doclint/internal/diag"
	"doclint/internal/token"
)

// next съедает текущий токен и возвращает его
func (p *Parser) next() token.Token {
	prev := p.tok
	p.tok = p.lx.Next()
	return prev
}

func (p *Parser) at(k token.Kind) bool {
	return p.tok.Kind == k
}

func (p *Parser) atWord(word string) bool {
	return p.tok.IsWord(word)
}

// eat съедает токен вида k, если он текущий
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.next()
		return true
	}
	return false
}

// expect: ожидаем конкретный токен, иначе репортим и возвращаем false.
func (p *Parser) expect(k token.Kind, code diag.Code, what string) bool {
	if p.eat(k) {
		return true
	}
	return p.fail(code, "expected "+what+", got "+describe(p.tok))
}

// expectWord: то же для слов-ключей оператора (as, import, in)
func (p *Parser) expectWord(word string, code diag.Code, msg string) bool {
	if p.atWord(word) {
		p.next()
		return true
	}
	return p.fail(code, msg+", got "+describe(p.tok))
}

func (p *Parser) expectName(what string) bool {
	if p.eat(token.Ident) {
		return true
	}
	return p.fail(diag.SynExpectIdentifier, "expected "+what+", got "+describe(p.tok))
}

// fail reports an error for the current tag and always returns false.
// Nothing is reported when the lexer already complained about this tag:
// invalid and synthetic tokens are its leftovers.
func (p *Parser) fail(code diag.Code, msg string) bool {
	if p.tok.Kind == token.Invalid || p.tok.Synthetic() || p.lx.TagBroken() {
		return false
	}
	sp := p.tok.Span
	if p.tok.Kind == token.EOF {
		sp.End = sp.Start
	}
	diag.ReportError(p.count, code, sp, msg).Emit()
	p.lx.MarkTagBroken()
	return false
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.VarClose:
		return "'end of print statement'"
	case token.BlockClose:
		return "'end of statement block'"
	case token.EOF:
		return "'end of template'"
	default:
		return "'" + tok.Text + "'"
	}
}

func closeName(open token.Kind) string {
	if open == token.VarOpen {
		return "end of print statement"
	}
	return "end of statement block"
}
