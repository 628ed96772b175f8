package diagfmt

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"doclint/internal/lint"
)

const (
	pageBreak = "\n<div class=\"page-break\"></div>\n"
	// ширина колонки "Template Text" в таблице проблем
	markdownContextWidth = 50
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "|", `\|`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`, "#", `\#`,
	"+", `\+`, "-", `\-`, ".", `\.`, "!", `\!`,
	"<", "&lt;", ">", "&gt;", "\n", "<br/>",
)

// Markdown writes the printable lint report: document information, status,
// summary, detailed issue tables and the template preview. Sections are
// separated by page breaks understood by the PDF renderer.
func Markdown(w io.Writer, doc Document, opts MarkdownOpts) error {
	generated := opts.Generated
	if generated.IsZero() {
		generated = time.Now()
	}
	res := doc.Result

	parts := []string{
		markdownHeader(res, doc.Path, generated),
		markdownSummary(res),
		pageBreak,
	}
	if len(res.Errors) > 0 || len(res.Warnings) > 0 {
		parts = append(parts, markdownDetails(res))
	} else {
		parts = append(parts, markdownSuccess)
	}
	if res.Preview != nil && *res.Preview != "" {
		parts = append(parts, pageBreak, markdownPreview(*res.Preview))
	}
	_, err := io.WriteString(w, strings.Join(parts, "\n"))
	return err
}

// RenderMarkdown is Markdown into a byte slice.
func RenderMarkdown(doc Document, opts MarkdownOpts) []byte {
	var b strings.Builder
	_ = Markdown(&b, doc, opts)
	return []byte(b.String())
}

func markdownHeader(res lint.Result, name string, generated time.Time) string {
	s := res.Summary
	score := "N/A"
	if s.Score != nil {
		score = fmt.Sprintf("%.1f%%", *s.Score)
	}

	var b strings.Builder
	b.WriteString("# 📋 DocX Jinja Template Linting Report\n\n")
	b.WriteString("## Document Information\n\n")
	b.WriteString("| Field | Value |\n|-------|-------|\n")
	fmt.Fprintf(&b, "| **Document Name** | %s |\n", codeSpan(name))
	fmt.Fprintf(&b, "| **Report Generated** | %s |\n", generated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "| **Template Size** | %s characters |\n", humanize.Comma(int64(s.TemplateSize)))
	fmt.Fprintf(&b, "| **Lines Count** | %s lines |\n", humanize.Comma(int64(s.LinesCount)))
	fmt.Fprintf(&b, "| **Jinja Tags** | %d tags |\n", s.TagsCount)
	fmt.Fprintf(&b, "| **Processing Time** | %.2fms |\n", s.ProcessingMS)
	fmt.Fprintf(&b, "| **Completeness Score** | %s |\n\n", score)
	b.WriteString("## Validation Status\n\n")
	if res.Success {
		b.WriteString("✅ **PASSED** - Template validation successful\n\n")
	} else {
		b.WriteString("❌ **FAILED** - Template validation failed\n\n")
	}
	return b.String()
}

func markdownSummary(res lint.Result) string {
	s := res.Summary
	var b strings.Builder
	b.WriteString("## 📊 Summary\n\n")
	if s.TotalErrors == 0 && s.TotalWarnings == 0 {
		b.WriteString("🎉 **Perfect Template!** No errors or warnings found.\n\n")
		return b.String()
	}
	b.WriteString("| Issue Type | Count |\n|------------|-------|\n")
	fmt.Fprintf(&b, "| ❌ **Errors** | %d |\n", s.TotalErrors)
	fmt.Fprintf(&b, "| ⚠️ **Warnings** | %d |\n\n", s.TotalWarnings)
	if s.TotalErrors > 0 {
		b.WriteString("🚨 **Action Required**: Errors must be fixed before template can be processed.\n\n")
	} else {
		b.WriteString("💡 **Recommendations**: Consider addressing warnings to improve template quality.\n\n")
	}
	return b.String()
}

func markdownDetails(res lint.Result) string {
	var b strings.Builder
	b.WriteString("# 🔍 Detailed Analysis\n\n")
	var errs, warns []finding
	for _, f := range findings(res) {
		if f.severity == "error" {
			errs = append(errs, f)
		} else {
			warns = append(warns, f)
		}
	}
	if len(errs) > 0 {
		b.WriteString("## ❌ Errors\n\n")
		writeIssueTable(&b, errs)
		b.WriteByte('\n')
	}
	if len(warns) > 0 {
		b.WriteString("## ⚠️ Warnings\n\n")
		writeIssueTable(&b, warns)
		b.WriteByte('\n')
	}
	return b.String()
}

func writeIssueTable(b *strings.Builder, items []finding) {
	b.WriteString("| Line | Template Text | Issue Description |\n")
	b.WriteString("|------|---------------|-------------------|\n")
	for _, f := range items {
		lineInfo := "Unknown"
		if f.line != nil {
			lineInfo = fmt.Sprint(*f.line)
			if f.col != nil {
				lineInfo += fmt.Sprintf(":%d", *f.col)
			}
		}

		text := "N/A"
		if ctx := focusLine(f.context); ctx != "" {
			cut := runewidth.Truncate(ctx, markdownContextWidth, "")
			text = codeSpan(cut)
			if cut != ctx {
				text += "..."
			}
		}

		desc := "**" + f.kind + "**<br/>" + escapeMarkdown(f.message)
		if f.suggestion != "" {
			desc += "<br/>💡 *" + escapeMarkdown(f.suggestion) + "*"
		}
		fmt.Fprintf(b, "| %s | %s | %s |\n", lineInfo, text, desc)
	}
}

// focusLine picks the marked line out of a multi-line syntax context
// (" -> 12: text") and returns the context unchanged otherwise.
func focusLine(ctx string) string {
	if !strings.Contains(ctx, "\n") {
		return ctx
	}
	for _, l := range strings.Split(ctx, "\n") {
		if _, rest, ok := strings.Cut(l, " -> "); ok {
			if _, text, ok := strings.Cut(rest, ": "); ok {
				return text
			}
		}
	}
	first, _, _ := strings.Cut(ctx, "\n")
	return first
}

const markdownSuccess = `# ✅ Validation Successful

🎉 **Congratulations!** Your template has passed all validation checks.

## What this means:
- ✅ All Jinja2 syntax is correct
- ✅ All template tags are properly matched
- ✅ Template structure is valid
- ✅ No quality issues detected

Your template is ready for production use!
`

func markdownPreview(text string) string {
	return "# 📄 Template Preview\n\n```jinja2\n" +
		strings.ReplaceAll(text, "```", "\\`\\`\\`") +
		"\n```\n"
}

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// codeSpan wraps s in backticks long enough not to collide with its content.
// Pipes are escaped so the span survives inside a table cell.
func codeSpan(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		s = " " + s + " "
	}
	return fence + s + fence
}
