package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"doclint/internal/lint"
)

const tabWidth = 4

type palette struct {
	err, warn, help, loc, gutter, ok *color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		help:   mk(color.FgCyan),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		ok:     mk(color.FgGreen, color.Bold),
	}
}

// finding is the common view of lint.Error and lint.Warning.
type finding struct {
	severity   string
	kind       string
	line, col  *int
	message    string
	context    string
	suggestion string
}

func findings(res lint.Result) []finding {
	out := make([]finding, 0, len(res.Errors)+len(res.Warnings))
	for _, e := range res.Errors {
		out = append(out, finding{"error", string(e.Kind), e.Line, e.Column, e.Message, e.Context, e.Suggestion})
	}
	for _, w := range res.Warnings {
		out = append(out, finding{"warning", string(w.Kind), w.Line, w.Column, w.Message, w.Context, w.Suggestion})
	}
	return out
}

// Pretty prints findings in a human-readable form:
//
//	<path>:<line>:<col>: error[<kind>]: <message>
//	   12 | source line
//	      |     ^~~~~~~
//	  = help: <suggestion>
//
// Errors come first, then warnings, each in result order.
func Pretty(w io.Writer, doc Document, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	path := DisplayPath(doc.Path, opts.PathMode, opts.BaseDir)

	var b strings.Builder
	for _, f := range findings(doc.Result) {
		sev := p.err
		if f.severity == "warning" {
			sev = p.warn
		}
		fmt.Fprintf(&b, "%s: %s: %s\n",
			p.loc.Sprint(location(path, f.line, f.col)),
			sev.Sprintf("%s[%s]", f.severity, f.kind),
			f.message)

		switch {
		case opts.ShowSource && f.line != nil && *f.line >= 1 && *f.line <= len(doc.Lines):
			writeSource(&b, p, doc.Lines[*f.line-1], *f.line, f.col)
		case opts.ShowContext && f.context != "":
			for _, l := range strings.Split(f.context, "\n") {
				b.WriteString(p.gutter.Sprint("    | "))
				b.WriteString(expandTabs(l))
				b.WriteByte('\n')
			}
		}
		if opts.ShowHelp && f.suggestion != "" {
			fmt.Fprintf(&b, "  %s %s\n", p.help.Sprint("= help:"), f.suggestion)
		}
	}
	if opts.ShowSummary {
		b.WriteString(summaryLine(p, path, doc.Result))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// writeSource prints the document line and a caret under the column.
// Ширина считается по ячейкам терминала, а не по рунам.
func writeSource(b *strings.Builder, p palette, text string, line int, col *int) {
	num := fmt.Sprintf("%5d", line)
	pad := strings.Repeat(" ", len(num))
	fmt.Fprintf(b, "%s %s\n", p.gutter.Sprint(num+" |"), expandTabs(text))
	if col == nil {
		return
	}
	runes := []rune(text)
	start := min(max(*col-1, 0), len(runes))
	offset := runewidth.StringWidth(expandTabs(string(runes[:start])))
	width := max(runewidth.StringWidth(tagAt(string(runes[start:]))), 1)
	fmt.Fprintf(b, "%s %s%s\n", p.gutter.Sprint(pad+" |"),
		strings.Repeat(" ", offset),
		p.err.Sprint("^"+strings.Repeat("~", width-1)))
}

// tagAt returns the tag starting at s, or "" when s does not start with one.
func tagAt(s string) string {
	if !strings.HasPrefix(s, "{") {
		return ""
	}
	for _, closer := range []string{"}}", "%}", "#}"} {
		if i := strings.Index(s, closer); i > 0 {
			return s[:i+len(closer)]
		}
	}
	return ""
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func summaryLine(p palette, path string, res lint.Result) string {
	s := res.Summary
	status := p.ok.Sprint("ok")
	if !res.Success {
		status = p.err.Sprint("failed")
	}
	score := "n/a"
	if s.Score != nil {
		score = fmt.Sprintf("%.1f%%", *s.Score)
	}
	return fmt.Sprintf("%s: %s, %s, %s, %s tags, %s chars, score %s",
		p.loc.Sprint(path), status,
		plural(s.TotalErrors, "error"), plural(s.TotalWarnings, "warning"),
		humanize.Comma(int64(s.TagsCount)), humanize.Comma(int64(s.TemplateSize)), score)
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
