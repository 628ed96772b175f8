package parser

import (
	"doclint/internal/diag"
	"doclint/internal/token"
)

type stmtParser func(p *Parser) bool

// statements maps block tag names to their header parsers. Tags missing here
// are skipped; closers and unknown names are handled by the tag matcher.
var statements map[string]stmtParser

func init() {
	statements = map[string]stmtParser{
		"if":         (*Parser).parseCondition,
		"elif":       (*Parser).parseCondition,
		"else":       noArgs,
		"for":        (*Parser).parseFor,
		"set":        (*Parser).parseSet,
		"with":       (*Parser).parseWith,
		"block":      (*Parser).parseBlockName,
		"endblock":   (*Parser).parseEndBlock,
		"macro":      (*Parser).parseMacro,
		"call":       (*Parser).parseCall,
		"filter":     (*Parser).parseFilterBlock,
		"include":    (*Parser).parseInclude,
		"extends":    (*Parser).parseSingleExpr,
		"import":     (*Parser).parseImport,
		"from":       (*Parser).parseFromImport,
		"autoescape": (*Parser).parseSingleExpr,
		"do":         (*Parser).parseSingleExpr,
		"break":      noArgs,
		"continue":   noArgs,
		"raw":        noArgs,
		"trans":      (*Parser).parseLoose,
		"pluralize":  (*Parser).parseLoose,
		// docxtpl
		"cellbg":  (*Parser).parseSingleExpr,
		"colspan": (*Parser).parseSingleExpr,
		"hm":      noArgs,
		"vm":      noArgs,
	}
}

func noArgs(*Parser) bool { return true }

func (p *Parser) parseLoose() bool {
	p.skipToClose()
	return true
}

func (p *Parser) parseCondition() bool {
	return p.parseTuple(true)
}

func (p *Parser) parseSingleExpr() bool {
	return p.parseExpr(true)
}

// {% for a, b in items if cond recursive %}
func (p *Parser) parseFor() bool {
	if !p.parseTarget(false) {
		return false
	}
	if !p.at(token.KwIn) {
		return p.fail(diag.SynForMissingIn, "expected 'in' in for loop, got "+describe(p.tok))
	}
	p.next()
	if !p.parseTuple(false) {
		return false
	}
	if p.atWord("if") {
		p.next()
		if !p.parseExpr(false) {
			return false
		}
	}
	if p.atWord("recursive") {
		p.next()
	}
	return true
}

// parseTarget parses an assignment target: name, "ns.attr" (withAttr),
// a tuple of names, or a parenthesized tuple.
func (p *Parser) parseTarget(withAttr bool) bool {
	for {
		switch {
		case p.eat(token.LParen):
			if !p.parseTarget(withAttr) {
				return false
			}
			if !p.expect(token.RParen, diag.SynUnclosedParen, "')'") {
				return false
			}
		case p.at(token.Ident):
			p.next()
			if withAttr && p.eat(token.Dot) && !p.expectName("attribute name") {
				return false
			}
		default:
			return p.fail(diag.SynExpectIdentifier, "expected a name to assign to, got "+describe(p.tok))
		}
		if !p.eat(token.Comma) {
			return true
		}
		if !p.at(token.Ident) && !p.at(token.LParen) {
			return true
		}
	}
}

// {% set x = expr %} или блочная форма {% set x | filter %}...{% endset %}
func (p *Parser) parseSet() bool {
	if !p.parseTarget(true) {
		return false
	}
	if p.eat(token.Assign) {
		return p.parseTuple(true)
	}
	if p.eat(token.Pipe) {
		if !p.parseFilterCall() {
			return false
		}
		for p.eat(token.Pipe) {
			if !p.parseFilterCall() {
				return false
			}
		}
	}
	return true
}

// {% with a = 1, b = c %}
func (p *Parser) parseWith() bool {
	for !p.tok.IsClose() {
		if !p.parseTarget(false) {
			return false
		}
		if !p.expect(token.Assign, diag.SynUnexpectedToken, "'='") {
			return false
		}
		if !p.parseExpr(true) {
			return false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return true
}

func (p *Parser) parseBlockName() bool {
	if !p.expectName("block name") {
		return false
	}
	for p.atWord("scoped") || p.atWord("required") {
		p.next()
	}
	return true
}

func (p *Parser) parseEndBlock() bool {
	p.eat(token.Ident)
	return true
}

// {% macro name(a, b=1) %}
func (p *Parser) parseMacro() bool {
	if !p.expectName("macro name") {
		return false
	}
	if !p.expect(token.LParen, diag.SynUnexpectedToken, "'('") {
		return false
	}
	return p.parseParams()
}

func (p *Parser) parseParams() bool {
	for !p.at(token.RParen) {
		if !p.expectName("parameter name") {
			return false
		}
		if p.eat(token.Assign) && !p.parseExpr(true) {
			return false
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.expect(token.RParen, diag.SynUnclosedParen, "',' or ')'")
}

// {% call(user) render(users) %}
func (p *Parser) parseCall() bool {
	if p.eat(token.LParen) && !p.parseParams() {
		return false
	}
	return p.parseExpr(true)
}

// {% filter upper|trim %}
func (p *Parser) parseFilterBlock() bool {
	if !p.parseFilterCall() {
		return false
	}
	for p.eat(token.Pipe) {
		if !p.parseFilterCall() {
			return false
		}
	}
	return true
}

func (p *Parser) parseInclude() bool {
	if !p.parseExpr(true) {
		return false
	}
	if p.atWord("ignore") {
		p.next()
		if !p.expectWord("missing", diag.SynExpectKeyword, "expected 'missing' after 'ignore'") {
			return false
		}
	}
	return p.parseContextModifier()
}

// {% import 'forms.html' as forms %}
func (p *Parser) parseImport() bool {
	if !p.parseExpr(true) {
		return false
	}
	if !p.expectWord("as", diag.SynExpectKeyword, "expected 'as' after import target") {
		return false
	}
	if !p.expectName("alias name") {
		return false
	}
	return p.parseContextModifier()
}

// {% from 'forms.html' import input as field, textarea %}
func (p *Parser) parseFromImport() bool {
	if !p.parseExpr(true) {
		return false
	}
	if !p.expectWord("import", diag.SynExpectKeyword, "expected 'import' after template name") {
		return false
	}
	for {
		if p.atWord("with") || p.atWord("without") {
			break
		}
		if !p.expectName("name to import") {
			return false
		}
		if p.atWord("as") {
			p.next()
			if !p.expectName("alias name") {
				return false
			}
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.parseContextModifier()
}

// parseContextModifier accepts an optional "with context" / "without context".
func (p *Parser) parseContextModifier() bool {
	if !p.atWord("with") && !p.atWord("without") {
		return true
	}
	p.next()
	return p.expectWord("context", diag.SynExpectKeyword, "expected 'context'")
}
