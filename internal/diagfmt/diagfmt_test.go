package diagfmt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doclint/internal/lint"
	"doclint/internal/tags"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }
func strp(v string) *string     { return &v }

func sampleDoc() Document {
	return Document{
		Path: "invoice.docx",
		Lines: []string{
			"{% if a %}",
			"\t{% endfor %}",
		},
		Result: lint.Result{
			Success: false,
			Errors: []lint.Error{
				{
					Line: intp(2), Column: intp(2), Kind: lint.KindMismatchedTag,
					Message: "Expected 'endif' but found 'endfor'", Context: "{% endfor %}",
					Suggestion: "Change to {% endif %} or check tag nesting (opened at line 1)",
				},
				{
					Kind: lint.KindDocument, Message: "broken | pipe",
				},
			},
			Warnings: []lint.Warning{
				{
					Line: intp(1), Kind: lint.KindLongLine, Message: "Line too long (250 > 200 characters)",
					Context: strings.Repeat("x", 60) + "...",
				},
			},
			Summary: lint.Summary{
				TotalErrors: 2, TotalWarnings: 1, TemplateSize: 1234, LinesCount: 2,
				TagsCount: 2, Score: floatp(65), ProcessingMS: 1.5,
			},
			Preview: strp("{% if a %}\n```\n"),
		},
	}
}

func TestShort(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Short(&buf, sampleDoc(), ShortOpts{}))
	assert.Equal(t,
		"invoice.docx:2:2: error mismatched_tag: Expected 'endif' but found 'endfor'\n"+
			"invoice.docx: error document_error: broken | pipe\n"+
			"invoice.docx:1: warning long_line: Line too long (250 > 200 characters)\n",
		buf.String())
}

func TestPrettySourceAndCaret(t *testing.T) {
	var buf bytes.Buffer
	err := Pretty(&buf, sampleDoc(), PrettyOpts{ShowSource: true, ShowContext: true, ShowHelp: true, ShowSummary: true})
	require.NoError(t, err)
	out := buf.String()

	assert.Contains(t, out, "invoice.docx:2:2: error[mismatched_tag]: Expected 'endif' but found 'endfor'\n")
	// табуляция раскрыта в 4 пробела, каретка под тегом целиком
	assert.Contains(t, out, "    2 |     {% endfor %}\n")
	assert.Contains(t, out, "      |     ^~~~~~~~~~~~\n")
	assert.Contains(t, out, "  = help: Change to {% endif %} or check tag nesting (opened at line 1)\n")
	assert.Contains(t, out, "invoice.docx: failed, 2 errors, 1 warning, 2 tags, 1,234 chars, score 65.0%")
	assert.NotContains(t, out, "\x1b[", "colors must be off")
}

func TestPrettyContextFallback(t *testing.T) {
	doc := sampleDoc()
	doc.Lines = nil
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, doc, PrettyOpts{ShowSource: true, ShowContext: true}))
	assert.Contains(t, buf.String(), "    | {% endfor %}\n")
	assert.NotContains(t, buf.String(), "help:")
}

func TestPrettyColor(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, sampleDoc(), PrettyOpts{Color: true}))
	assert.Contains(t, buf.String(), "\x1b[")
}

func TestTagAt(t *testing.T) {
	assert.Equal(t, "{{ x }}", tagAt("{{ x }} tail"))
	assert.Equal(t, "{%p if a %}", tagAt("{%p if a %}{{ b }}"))
	assert.Equal(t, "", tagAt("plain"))
	assert.Equal(t, "", tagAt("{ unterminated"))
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleDoc().Result, JSONOpts{}))
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, false, m["success"])
	assert.Contains(t, buf.String(), "\n  \"errors\"")

	buf.Reset()
	ok := sampleDoc()
	ok.Path = "/very/long/absolute/path/to/some/templates/dir/ok.docx"
	ok.Result = lint.Result{Success: true, Errors: []lint.Error{}, Warnings: []lint.Warning{}}
	require.NoError(t, JSONFiles(&buf, []Document{sampleDoc(), ok}, JSONOpts{Compact: true}))

	var out FilesOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, 2, out.Count)
	assert.Equal(t, 1, out.Failed)
	assert.Equal(t, "ok.docx", out.Files[1].Path)
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestMarkdownReport(t *testing.T) {
	when := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	md := string(RenderMarkdown(sampleDoc(), MarkdownOpts{Generated: when}))

	assert.True(t, strings.HasPrefix(md, "# 📋 DocX Jinja Template Linting Report\n"))
	assert.Contains(t, md, "| **Document Name** | `invoice.docx` |")
	assert.Contains(t, md, "| **Report Generated** | 2026-03-04 05:06:07 |")
	assert.Contains(t, md, "| **Template Size** | 1,234 characters |")
	assert.Contains(t, md, "| **Processing Time** | 1.50ms |")
	assert.Contains(t, md, "| **Completeness Score** | 65.0% |")
	assert.Contains(t, md, "❌ **FAILED** - Template validation failed")
	assert.Contains(t, md, "| ❌ **Errors** | 2 |")
	assert.Contains(t, md, "🚨 **Action Required**")
	assert.Contains(t, md, pageBreak)
	assert.Contains(t, md, "## ❌ Errors")
	assert.Contains(t, md, "## ⚠️ Warnings")
	assert.Contains(t, md, "| 2:2 | `{% endfor %}` | **mismatched_tag**<br/>Expected 'endif' but found 'endfor'<br/>💡 *Change to {% endif %} or check tag nesting \\(opened at line 1\\)* |")
	assert.Contains(t, md, "| Unknown | N/A | **document_error**<br/>broken \\| pipe |")
	assert.Contains(t, md, "`"+strings.Repeat("x", 50)+"`...")
	assert.Contains(t, md, "```jinja2\n{% if a %}\n\\`\\`\\`\n\n```\n")
}

func TestMarkdownPerfectTemplate(t *testing.T) {
	doc := Document{Path: "ok.docx", Result: lint.Result{Success: true, Summary: lint.Summary{Score: floatp(100)}}}
	md := string(RenderMarkdown(doc, MarkdownOpts{}))
	assert.Contains(t, md, "✅ **PASSED**")
	assert.Contains(t, md, "🎉 **Perfect Template!**")
	assert.Contains(t, md, "# ✅ Validation Successful")
	assert.NotContains(t, md, "Template Preview")
}

func TestMarkdownWarningsOnly(t *testing.T) {
	doc := sampleDoc()
	doc.Result.Errors = nil
	doc.Result.Summary.TotalErrors = 0
	md := string(RenderMarkdown(doc, MarkdownOpts{}))
	assert.Contains(t, md, "💡 **Recommendations**")
	assert.NotContains(t, md, "## ❌ Errors")
}

func TestFocusLine(t *testing.T) {
	ctx := "    1: {% if a %}\n -> 2: {{ b + }}\n    3: tail"
	assert.Equal(t, "{{ b + }}", focusLine(ctx))
	assert.Equal(t, "single", focusLine("single"))
}

func TestCodeSpan(t *testing.T) {
	assert.Equal(t, "`a\\|b`", codeSpan("a|b"))
	assert.Equal(t, "``a`b``", codeSpan("a`b"))
}

func TestTagsDump(t *testing.T) {
	occs := []tags.Occurrence{
		{Class: tags.BlockOpen, Name: "if", Prefix: "p", Line: 1, Column: 1, Raw: "{%p if x %}", Args: "x"},
		{Class: tags.BlockClose, Name: "if", ForeignPrefix: "zz", Line: 2, Column: 3, Raw: "{%zz endif %}"},
	}
	var b bytes.Buffer
	require.NoError(t, TagsPretty(&b, occs))
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "block_open")
	assert.Contains(t, lines[0], "(prefix: p)")
	assert.Contains(t, lines[1], "endif")
	assert.Contains(t, lines[1], "at 2:3")
	assert.Contains(t, lines[1], "(unknown prefix: zz)")

	b.Reset()
	require.NoError(t, TagsJSON(&b, occs, JSONOpts{Compact: true}))
	assert.Contains(t, b.String(), `"class":"block_open"`)
	assert.Contains(t, b.String(), `"args":"x"`)
	assert.NotContains(t, b.String(), `"prefix":""`)
}

func TestDisplayPath(t *testing.T) {
	base := t.TempDir()
	inside := filepath.Join(base, "nested", "template.docx")
	outside := filepath.Join(filepath.Dir(base), "other", "template.docx")

	assert.Equal(t, "nested/template.docx", DisplayPath(inside, PathModeRelative, base))
	assert.Equal(t, filepath.ToSlash(outside), DisplayPath(outside, PathModeRelative, base))
	assert.Equal(t, "template.docx", DisplayPath(inside, PathModeBasename, ""))
	assert.Equal(t, "short.docx", DisplayPath("short.docx", PathModeAuto, ""))

	long := filepath.Join(base, strings.Repeat("x", 40), "report.docx")
	assert.Equal(t, "report.docx", DisplayPath(long, PathModeAuto, ""))
}
