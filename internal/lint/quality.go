package lint

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"doclint/internal/diag"
	"doclint/internal/source"
	"doclint/internal/tags"
)

type suspiciousPattern struct {
	re   *regexp.Regexp
	desc string
}

// Brace patterns Word tends to produce when a tag is edited by hand.
var suspiciousPatterns = []suspiciousPattern{
	{regexp.MustCompile(`\{\{\{[^}]*\}\}\}`), "Triple braces detected"},
	{regexp.MustCompile(`\{%\s*\{[^}]*\}\s*%\}`), "Mixed tag syntax"},
	{regexp.MustCompile(`\{\{[^}]*\{\{[^}]*\}\}`), "Nested double braces in variable"},
	{regexp.MustCompile(`\{\s+\{[^}]*\}\s+\}`), "Spaces between braces"},
}

// checkQuality emits style warnings: long lines, long expressions and
// suspicious brace runs. It never reports errors.
func checkQuality(file *source.File, lines []string, occs []tags.Occurrence, cfg *Config, opts Options, loc locator, rep diag.Reporter) {
	for i, line := range lines {
		n := utf8.RuneCountInString(line)
		if n <= opts.MaxLineLength {
			continue
		}
		context := line
		if n > cfg.LongLineContext {
			context = truncateRunes(line, cfg.LongLineContext) + "..."
		}
		diag.ReportWarning(rep, diag.QltLongLine, source.At(file.ID, file.LineStart(i+1)),
			fmt.Sprintf("Line too long (%d > %d characters)", n, opts.MaxLineLength)).
			WithContext(context).
			WithSuggestion("Consider breaking long lines for better readability").
			Emit()
	}

	for _, o := range occs {
		if o.Class != tags.Expression || utf8.RuneCountInString(o.Raw) <= cfg.ComplexExprLen {
			continue
		}
		diag.ReportWarning(rep, diag.QltComplexExpression, loc.span(o), "Complex variable expression detected").
			WithContext(o.Raw).
			WithSuggestion("Consider simplifying expression or using intermediate variables").
			Emit()
	}

	text := string(file.Content)
	for _, p := range suspiciousPatterns {
		for _, m := range p.re.FindAllStringIndex(text, -1) {
			diag.ReportWarning(rep, diag.QltSuspiciousSyntax, source.Span{File: file.ID, Start: uint32(m[0]), End: uint32(m[1])}, // #nosec G115
				"Suspicious syntax: "+p.desc).
				WithContext(text[m[0]:m[1]]).
				WithSuggestion("Review syntax for correctness").
				Emit()
		}
	}
}
