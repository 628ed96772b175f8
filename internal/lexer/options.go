package lexer

import (
	"doclint/internal/diag"
	"doclint/internal/source"
	"doclint/internal/token"
)

type Options struct {
	Reporter diag.Reporter // nil: ошибки игнорируем, лексим дальше
	Delims   token.Delimiters
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	// одна ошибка на тег: остальное в этом теге почти всегда следствие первой
	if lx.tagBroken {
		return
	}
	if lx.mode == modeTag {
		lx.tagBroken = true
	}
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
