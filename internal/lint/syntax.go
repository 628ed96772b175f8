package lint

import (
	"fmt"
	"strings"

	"doclint/internal/diag"
	"doclint/internal/parser"
	"doclint/internal/source"
)

const (
	syntaxPrefix     = "Jinja2 syntax error: "
	syntaxSuggestion = "Check Jinja2 syntax documentation for correct tag format"
)

// syntaxReporter dresses parser diagnostics for the report: message prefix,
// surrounding lines and a remedy.
type syntaxReporter struct {
	next         diag.Reporter
	file         *source.File
	lines        []string
	contextLines int
}

func (r syntaxReporter) Report(d diag.Diagnostic) {
	d.Message = syntaxPrefix + d.Message
	line := int(r.file.Position(d.Primary.Start).Line)
	d.Context = lineContext(r.lines, line, r.contextLines)
	if d.Suggestion == "" {
		d.Suggestion = suggestSyntaxFix(d)
	}
	r.next.Report(d)
}

// suggestSyntaxFix recognises characters that Word substitutes while typing.
func suggestSyntaxFix(d diag.Diagnostic) string {
	if d.Code == diag.LexUnknownChar {
		switch {
		case strings.ContainsAny(d.Message, "“”„‘’«»"):
			return "Replace typographic quotes with straight quotes (\" or ')"
		case strings.ContainsRune(d.Message, '\u00a0'):
			return "Replace the non-breaking space inside the tag with a regular space"
		}
	}
	return syntaxSuggestion
}

// lineContext renders lines around lineNo, marking it with "->".
func lineContext(lines []string, lineNo, radius int) string {
	if lineNo < 1 || lineNo > len(lines) {
		return ""
	}
	start := max(0, lineNo-radius-1)
	end := min(len(lines), lineNo+radius)
	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		marker := "    "
		if i == lineNo-1 {
			marker = " -> "
		}
		fmt.Fprintf(&b, "%s%d: %s", marker, i+1, lines[i])
	}
	return b.String()
}

// checkSyntax parses the whole document. It reports whether any syntax
// error was found; a parser panic becomes one error.
func checkSyntax(file *source.File, lines []string, cfg *Config, rep diag.Reporter) (tags int, failed bool) {
	counter := &diag.CountingReporter{Next: rep}
	defer func() {
		if r := recover(); r != nil {
			diag.ReportError(counter, diag.SynInternal, source.At(file.ID, 0), fmt.Sprintf("Template error: %v", r)).
				WithSuggestion("Check template for syntax issues").
				Emit()
		}
		failed = counter.Errors > 0
	}()

	decorated := diag.NewDedupReporter(syntaxReporter{
		next:         counter,
		file:         file,
		lines:        lines,
		contextLines: cfg.ContextLines,
	})
	res := parser.ParseFile(file, parser.Options{
		Reporter:  decorated,
		Delims:    cfg.Delims,
		Prefixes:  cfg.Prefixes,
		MaxErrors: cfg.MaxSyntaxErrors,
	})
	return res.Tags, counter.Errors > 0
}
