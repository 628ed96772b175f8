package parser

import (
	"strings"

	"doclint/internal/diag"
	"doclint/internal/dialect"
	"doclint/internal/lexer"
	"doclint/internal/source"
	"doclint/internal/token"
)

type Options struct {
	Reporter  diag.Reporter
	Delims    token.Delimiters
	Prefixes  dialect.Set
	MaxErrors int // 0: без ограничения
}

type Result struct {
	Tags      int  // разобранных тегов (выражения, блоки, комментарии)
	Errors    int  // ошибок лексера и парсера
	Truncated bool // остановились по MaxErrors
}

// Parser: состояние парсера на один документ
type Parser struct {
	lx    *lexer.Lexer
	tok   token.Token // текущий, ещё не съеденный токен
	count *diag.CountingReporter
	opts  Options
	open  token.Token // открывающий разделитель текущего тега
}

// ParseFile lexes and parses the whole document, reporting syntax errors.
// Each malformed tag yields at most one error; parsing resumes after the
// tag's closing delimiter.
func ParseFile(file *source.File, opts Options) Result {
	count := &diag.CountingReporter{Next: opts.Reporter}
	p := Parser{
		lx: lexer.New(file, lexer.Options{
			Reporter: count,
			Delims:   opts.Delims,
		}),
		count: count,
		opts:  opts,
	}
	return p.parseDocument()
}

func (p *Parser) parseDocument() Result {
	var res Result
	p.next()
	for p.tok.Kind != token.EOF {
		if p.enough() {
			res.Truncated = true
			break
		}
		switch p.tok.Kind {
		case token.VarOpen:
			res.Tags++
			p.parseTag(p.parseVarTag)
		case token.BlockOpen:
			res.Tags++
			p.parseTag(p.parseBlockTag)
		case token.Comment:
			res.Tags++
			p.next()
		default:
			p.next()
		}
	}
	res.Errors = p.count.Errors
	return res
}

// parseTag runs body on the tag contents and resyncs at its closer.
func (p *Parser) parseTag(body func() bool) {
	p.open = p.next()
	if body() && !p.tok.IsClose() {
		p.fail(diag.SynTrailingTokens, "expected "+closeName(p.open.Kind)+", got "+describe(p.tok))
	}
	for !p.tok.IsClose() && p.tok.Kind != token.EOF {
		p.next()
	}
	if p.tok.IsClose() {
		p.next()
	}
}

func (p *Parser) parseVarTag() bool {
	if p.tok.IsClose() {
		return p.fail(diag.SynEmptyTag, "expected an expression, got "+describe(p.tok))
	}
	p.skipPrefix(true)
	return p.parseTuple(true)
}

func (p *Parser) parseBlockTag() bool {
	if p.tok.IsClose() {
		return p.fail(diag.SynEmptyTag, "tag name expected")
	}
	p.skipPrefix(false)
	if p.tok.Kind != token.Ident {
		return p.fail(diag.SynUnexpectedToken, "tag name expected, got "+describe(p.tok))
	}
	name := strings.ToLower(p.tok.Text)
	p.next()
	if base, ok := strings.CutPrefix(name, "end"); ok && name != "endblock" {
		if _, known := statements[base]; known {
			return true
		}
	}
	stmt, ok := statements[name]
	if !ok {
		// неизвестные имена проверяет TagMatcher
		p.skipToClose()
		return true
	}
	return stmt(p)
}

// skipPrefix consumes a dialect prefix word ("{%p if x %}", "{{r rich }}").
// The prefix must be followed by whitespace and another identifier.
func (p *Parser) skipPrefix(inExpr bool) {
	if p.tok.Kind != token.Ident {
		return
	}
	if _, ok := p.opts.Prefixes.Lookup(strings.ToLower(p.tok.Text)); !ok {
		return
	}
	next := p.lx.Peek()
	if next.Kind != token.Ident || next.Span.Start == p.tok.Span.End {
		return
	}
	if inExpr && (next.Text == "if" || next.Text == "else") {
		return
	}
	p.next()
}

func (p *Parser) skipToClose() {
	for !p.tok.IsClose() && p.tok.Kind != token.EOF {
		p.next()
	}
}

func (p *Parser) enough() bool {
	return p.opts.MaxErrors > 0 && p.count.Errors >= p.opts.MaxErrors
}
