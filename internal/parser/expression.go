package parser

import (
	"doclint/internal/diag"
	"doclint/internal/token"
)

// parseTuple parses comma separated expressions; a trailing comma is allowed.
func (p *Parser) parseTuple(cond bool) bool {
	if !p.parseExpr(cond) {
		return false
	}
	for p.eat(token.Comma) {
		if p.tupleEnd() {
			break
		}
		if !p.parseExpr(cond) {
			return false
		}
	}
	return true
}

func (p *Parser) tupleEnd() bool {
	switch p.tok.Kind {
	case token.VarClose, token.BlockClose, token.RParen, token.EOF:
		return true
	}
	return p.atWord("if")
}

// parseExpr parses an expression; with cond the inline form
// "a if b else c" is accepted.
func (p *Parser) parseExpr(cond bool) bool {
	if !p.parseBinary(precOr) {
		return false
	}
	if !cond || !p.atWord("if") {
		return true
	}
	p.next()
	if !p.parseBinary(precOr) {
		return false
	}
	if p.atWord("else") {
		p.next()
		return p.parseExpr(true)
	}
	return true
}

// parseBinary: precedence climbing по таблице из op_table.go
func (p *Parser) parseBinary(minPrec int) bool {
	if p.at(token.KwNot) && minPrec <= precNot {
		p.next()
		if !p.parseBinary(precNot) {
			return false
		}
	} else if !p.parseUnary() {
		return false
	}

	for {
		prec, width := p.binaryOp()
		if prec == 0 || prec < minPrec {
			return true
		}
		for range width {
			p.next()
		}
		if !p.parseBinary(prec + 1) {
			return false
		}
	}
}

func (p *Parser) parseUnary() bool {
	if p.at(token.Minus) || p.at(token.Plus) {
		p.next()
		return p.parseUnary()
	}
	if !p.parsePrimary() || !p.parsePostfix() {
		return false
	}
	return p.parseFilters()
}

func (p *Parser) parsePrimary() bool {
	switch p.tok.Kind {
	case token.Ident, token.KwTrue, token.KwFalse, token.KwNone, token.IntLit, token.FloatLit:
		p.next()
		return true
	case token.StringLit:
		// соседние строки склеиваются: 'a' 'b'
		for p.at(token.StringLit) {
			p.next()
		}
		return true
	case token.LParen:
		p.next()
		if p.eat(token.RParen) {
			return true
		}
		if !p.parseTuple(true) {
			return false
		}
		return p.expect(token.RParen, diag.SynUnclosedParen, "')'")
	case token.LBracket:
		p.next()
		return p.parseList()
	case token.LBrace:
		p.next()
		return p.parseDict()
	default:
		return p.fail(diag.SynExpectExpression, "expected an expression, got "+describe(p.tok))
	}
}

func (p *Parser) parseList() bool {
	for !p.at(token.RBracket) {
		if !p.parseExpr(true) {
			return false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.expect(token.RBracket, diag.SynUnclosedBracket, "',' or ']'")
}

func (p *Parser) parseDict() bool {
	for !p.at(token.RBrace) {
		if !p.parseExpr(true) {
			return false
		}
		if !p.expect(token.Colon, diag.SynUnexpectedToken, "':'") {
			return false
		}
		if !p.parseExpr(true) {
			return false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.expect(token.RBrace, diag.SynUnclosedBrace, "',' or '}'")
}

func (p *Parser) parsePostfix() bool {
	for {
		switch p.tok.Kind {
		case token.Dot:
			p.next()
			if p.at(token.Ident) || p.at(token.IntLit) || p.tok.IsKeyword() {
				p.next()
				continue
			}
			return p.fail(diag.SynExpectIdentifier, "expected name or number after '.', got "+describe(p.tok))
		case token.LBracket:
			p.next()
			if !p.parseSubscript() {
				return false
			}
		case token.LParen:
			p.next()
			if !p.parseArgs() {
				return false
			}
		default:
			return true
		}
	}
}

// parseSubscript parses "a[i]", "a[i, j]" and slices "a[1:2:3]".
func (p *Parser) parseSubscript() bool {
	for {
		if !p.parseSliceItem() {
			return false
		}
		if !p.eat(token.Comma) || p.at(token.RBracket) {
			break
		}
	}
	return p.expect(token.RBracket, diag.SynUnclosedBracket, "']'")
}

func (p *Parser) parseSliceItem() bool {
	seen := false
	for colons := 0; ; colons++ {
		if !p.at(token.Colon) && !p.at(token.RBracket) && !p.at(token.Comma) {
			if !p.parseExpr(true) {
				return false
			}
			seen = true
		}
		if colons == 2 || !p.eat(token.Colon) {
			break
		}
		seen = true
	}
	if !seen {
		return p.fail(diag.SynExpectExpression, "expected an expression, got "+describe(p.tok))
	}
	return true
}

// parseArgs parses call arguments after '(':
// positional, keyword (name=value), *args and **kwargs.
func (p *Parser) parseArgs() bool {
	for !p.at(token.RParen) {
		switch {
		case p.at(token.Star) || p.at(token.StarStar):
			p.next()
		case p.at(token.Ident) && p.lx.Peek().Kind == token.Assign:
			p.next()
			p.next()
		}
		if !p.parseExpr(true) {
			return false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.expect(token.RParen, diag.SynUnclosedParen, "',' or ')'")
}

// parseFilters parses "| filter(args)" chains and "is [not] test arg" checks.
func (p *Parser) parseFilters() bool {
	for {
		switch {
		case p.eat(token.Pipe):
			if !p.parseFilterCall() {
				return false
			}
		case p.eat(token.KwIs):
			p.eat(token.KwNot)
			if !p.parseTestCall() {
				return false
			}
		default:
			return true
		}
	}
}

func (p *Parser) parseFilterCall() bool {
	if !p.expectName("filter name") {
		return false
	}
	return p.parseDottedArgs()
}

func (p *Parser) parseTestCall() bool {
	// имена тестов могут совпадать с ключевыми словами: is none, is true, is in
	if !p.at(token.Ident) && !p.tok.IsKeyword() {
		return p.fail(diag.SynExpectIdentifier, "expected test name, got "+describe(p.tok))
	}
	p.next()
	if !p.parseDottedArgs() {
		return false
	}
	if !p.testArgFollows() {
		return true
	}
	return p.parsePrimary() && p.parsePostfix()
}

// parseDottedArgs handles "ns.name" continuations and an optional "(args)".
func (p *Parser) parseDottedArgs() bool {
	for p.eat(token.Dot) {
		if !p.expectName("name after '.'") {
			return false
		}
	}
	if p.eat(token.LParen) {
		return p.parseArgs()
	}
	return true
}

// testArgFollows reports whether a test takes a single argument without
// parentheses: "x is divisibleby 3".
func (p *Parser) testArgFollows() bool {
	switch p.tok.Kind {
	case token.Ident:
		return !p.atWord("else") && !p.atWord("if") && !p.atWord("recursive")
	case token.IntLit, token.FloatLit, token.StringLit, token.LBracket, token.LBrace,
		token.KwTrue, token.KwFalse, token.KwNone:
		return true
	}
	return false
}
