package lint

import (
	"math"
	"strings"
	"unicode/utf8"

	"doclint/internal/diag"
	"doclint/internal/observ"
	"doclint/internal/source"
)

// ErrorKind is the wire name of an error category.
type ErrorKind string

const (
	KindSyntax            ErrorKind = "syntax_error"
	KindUnclosedTag       ErrorKind = "unclosed_tag"
	KindMismatchedTag     ErrorKind = "mismatched_tag"
	KindNested            ErrorKind = "nested_error"
	KindUndefinedVariable ErrorKind = "undefined_variable"
	KindInvalidExpression ErrorKind = "invalid_expression"
	KindDocument          ErrorKind = "document_error"
)

// WarningKind is the wire name of a warning category.
type WarningKind string

const (
	KindLongLine          WarningKind = "long_line"
	KindUnusedVariable    WarningKind = "unused_variable"
	KindComplexExpression WarningKind = "complex_expression"
	KindSuspiciousSyntax  WarningKind = "suspicious_syntax"
)

// Error is one finding that fails the run.
type Error struct {
	Line       *int      `json:"line_number" msgpack:"line_number"`
	Column     *int      `json:"column" msgpack:"column"`
	Kind       ErrorKind `json:"error_type" msgpack:"error_type"`
	Message    string    `json:"message" msgpack:"message"`
	Context    string    `json:"context,omitempty" msgpack:"context,omitempty"`
	TagName    string    `json:"tag_name,omitempty" msgpack:"tag_name,omitempty"`
	Suggestion string    `json:"suggestion,omitempty" msgpack:"suggestion,omitempty"`
}

// Warning is a non-fatal finding.
type Warning struct {
	Line       *int        `json:"line_number" msgpack:"line_number"`
	Column     *int        `json:"column" msgpack:"column"`
	Kind       WarningKind `json:"warning_type" msgpack:"warning_type"`
	Message    string      `json:"message" msgpack:"message"`
	Context    string      `json:"context,omitempty" msgpack:"context,omitempty"`
	Suggestion string      `json:"suggestion,omitempty" msgpack:"suggestion,omitempty"`
}

// Summary is derived from the finding lists; build it with newSummary.
type Summary struct {
	TotalErrors   int      `json:"total_errors" msgpack:"total_errors"`
	TotalWarnings int      `json:"total_warnings" msgpack:"total_warnings"`
	TemplateSize  int      `json:"template_size" msgpack:"template_size"`
	LinesCount    int      `json:"lines_count" msgpack:"lines_count"`
	TagsCount     int      `json:"jinja_tags_count" msgpack:"jinja_tags_count"`
	Score         *float64 `json:"completeness_score" msgpack:"completeness_score"`
	ProcessingMS  float64  `json:"processing_time_ms" msgpack:"processing_time_ms"`
}

// Result is the outcome of one lint run.
type Result struct {
	Success  bool      `json:"success" msgpack:"success"`
	Errors   []Error   `json:"errors" msgpack:"errors"`
	Warnings []Warning `json:"warnings" msgpack:"warnings"`
	Summary  Summary   `json:"summary" msgpack:"summary"`
	Content  *string   `json:"template_content" msgpack:"template_content"`
	Preview  *string   `json:"template_preview" msgpack:"template_preview"`

	// Timings are per-stage durations of this run; not part of the wire format.
	Timings observ.Report `json:"-" msgpack:"-"`
}

// textStats are the document measurements that go into the summary.
type textStats struct {
	size  int // символов (рун)
	lines int
	tags  int
	score *float64
}

func newSummary(errs []Error, warns []Warning, st textStats, elapsedMS float64) Summary {
	return Summary{
		TotalErrors:   len(errs),
		TotalWarnings: len(warns),
		TemplateSize:  st.size,
		LinesCount:    st.lines,
		TagsCount:     st.tags,
		Score:         st.score,
		ProcessingMS:  math.Round(elapsedMS*100) / 100,
	}
}

// succeeded: no errors, and no warnings when warnings are fatal.
func succeeded(bag *diag.Bag, opts Options) bool {
	if bag.HasErrors() {
		return false
	}
	return !opts.FailOnWarnings || !bag.HasWarnings()
}

// preview returns the first n runes of text, with "..." when cut.
func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return truncateRunes(text, n) + "..."
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// failedResult is the single-error result of a run that could not proceed.
func failedResult(msg, suggestion string, elapsedMS float64) Result {
	errs := []Error{{Kind: KindDocument, Message: msg, Suggestion: suggestion}}
	return Result{
		Errors:   errs,
		Warnings: []Warning{},
		Summary:  newSummary(errs, nil, textStats{}, elapsedMS),
	}
}

func errorKind(code diag.Code) ErrorKind {
	switch {
	case code == diag.TagMismatched, code == diag.TagStrayClose:
		return KindMismatchedTag
	case code == diag.TagUnclosed:
		return KindUnclosedTag
	case code == diag.TagTooDeep:
		return KindNested
	case code == diag.SemUndefinedVariable:
		return KindUndefinedVariable
	case code == diag.SemInvalidExpression:
		return KindInvalidExpression
	case code >= diag.DocInfo && code < diag.SemInfo:
		return KindDocument
	}
	// лексер, парсер, неизвестный тег
	return KindSyntax
}

func warningKind(code diag.Code) WarningKind {
	switch code {
	case diag.QltLongLine:
		return KindLongLine
	case diag.QltComplexExpression:
		return KindComplexExpression
	case diag.QltUnusedVariable:
		return KindUnusedVariable
	}
	return KindSuspiciousSyntax
}

// located reports whether findings with this code carry a line.
func located(code diag.Code) bool {
	return code != diag.SynInternal && (code < diag.DocInfo || code >= diag.SemInfo)
}

// hasColumn reports whether findings with this code carry a column.
func hasColumn(code diag.Code) bool {
	switch {
	case code == diag.SynInternal:
		return false
	case code.IsSyntax():
		return true
	}
	return code == diag.TagUnknown || code == diag.TagMismatched || code == diag.TagStrayClose
}

// converter turns diagnostics of one document into result entries.
type converter struct {
	file *source.File
}

// position returns the 1-based line and rune column of off.
func (c converter) position(off uint32) (line, col int) {
	lc := c.file.Position(off)
	line = int(lc.Line)
	start := c.file.LineStart(line)
	if off < start || int(off) > len(c.file.Content) {
		return line, 1
	}
	return line, utf8.RuneCount(c.file.Content[start:off]) + 1
}

func (c converter) locate(d *diag.Diagnostic) (line, col *int, context string) {
	context = d.Context
	if c.file == nil || !located(d.Code) {
		return nil, nil, context
	}
	l, cl := c.position(d.Primary.Start)
	line = &l
	if hasColumn(d.Code) {
		col = &cl
	}
	if context == "" {
		context = strings.TrimSpace(c.file.GetLine(uint32(l))) // #nosec G115 -- line comes from the index
	}
	return line, col, context
}

func (c converter) convert(items []diag.Diagnostic) ([]Error, []Warning) {
	errs := make([]Error, 0, len(items))
	warns := make([]Warning, 0)
	for i := range items {
		d := &items[i]
		line, col, context := c.locate(d)
		if d.Severity.Fails() {
			errs = append(errs, Error{
				Line:       line,
				Column:     col,
				Kind:       errorKind(d.Code),
				Message:    d.Message,
				Context:    context,
				TagName:    d.TagName,
				Suggestion: d.Suggestion,
			})
			continue
		}
		warns = append(warns, Warning{
			Line:       line,
			Column:     col,
			Kind:       warningKind(d.Code),
			Message:    d.Message,
			Context:    context,
			Suggestion: d.Suggestion,
		})
	}
	return errs, warns
}
