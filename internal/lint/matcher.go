package lint

import (
	"fmt"

	"doclint/internal/diag"
	"doclint/internal/source"
	"doclint/internal/tags"
)

// Frame is an opened paired tag waiting for its closer.
type Frame struct {
	Name   string
	Prefix string
	Line   int
	Raw    string
	Depth  int
	span   source.Span
}

func (f Frame) openName() string  { return f.Prefix + f.Name }
func (f Frame) closeName() string { return f.Prefix + "end" + f.Name }

// locator maps occurrences back to byte spans of the document.
type locator struct {
	file *source.File
}

func (l locator) span(o tags.Occurrence) source.Span {
	start := l.file.LineStart(o.Line) + uint32(o.Offset)                               // #nosec G115 -- offset within a line of the file
	return source.Span{File: l.file.ID, Start: start, End: start + uint32(len(o.Raw))} // #nosec G115
}

// matchTags pairs block openers with closers using one LIFO stack.
// A closer is compared with the top frame only; on mismatch the frame stays.
// Frames left at the end are reported outermost first.
func matchTags(occs []tags.Occurrence, vocab tags.Vocabulary, loc locator, rep diag.Reporter) {
	var stack []Frame
	words := vocab.Words()

	for _, o := range occs {
		switch o.Class {
		case tags.BlockOpen:
			switch {
			case vocab.IsPaired(o):
				stack = append(stack, Frame{
					Name:   o.Name,
					Prefix: o.Prefix,
					Line:   o.Line,
					Raw:    o.Raw,
					Depth:  len(stack) + 1,
					span:   loc.span(o),
				})
			case vocab.IsStandalone(o), o.HasPrefix():
				// одиночный тег или тег чужого диалекта
			default:
				diag.ReportError(rep, diag.TagUnknown, loc.span(o), "Unknown Jinja tag: "+o.Name).
					WithTag(o.Name).
					WithSuggestion("Check if tag name is spelled correctly" + didYouMean(o.Name, words)).
					Emit()
			}

		case tags.BlockClose:
			if len(stack) == 0 {
				diag.ReportError(rep, diag.TagStrayClose, loc.span(o),
					fmt.Sprintf("Closing tag '%s' without matching opening tag", o.Name)).
					WithTag(o.Name).
					WithSuggestion(fmt.Sprintf("Add opening %s tag before this line", tags.Markup(o.Prefix, o.Name))).
					Emit()
				continue
			}
			top := stack[len(stack)-1]
			if top.Name == o.Name && top.Prefix == o.Prefix {
				stack = stack[:len(stack)-1]
				continue
			}
			diag.ReportError(rep, diag.TagMismatched, loc.span(o),
				fmt.Sprintf("Expected '%s' but found '%s'", top.closeName(), o.CloseName())).
				WithTag(o.Name).
				WithSuggestion(fmt.Sprintf("Change to %s or check tag nesting (opened at line %d)",
					tags.Markup(top.Prefix, "end"+top.Name), top.Line)).
				WithNote(top.span, "opened here").
				Emit()
		}
	}

	for _, f := range stack {
		diag.ReportError(rep, diag.TagUnclosed, f.span, fmt.Sprintf("Unclosed '%s' tag", f.openName())).
			WithTag(f.Name).
			WithContext(f.Raw).
			WithSuggestion(fmt.Sprintf("Add %s tag to close this block", tags.Markup(f.Prefix, "end"+f.Name))).
			Emit()
	}
}
