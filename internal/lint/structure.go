package lint

import (
	"fmt"

	"doclint/internal/diag"
	"doclint/internal/tags"
)

// checkStructure tracks nesting depth of paired tags and reports every
// opener that goes deeper than maxDepth. A closer pops only a frame of the
// same name, so mismatches do not disturb the count.
func checkStructure(occs []tags.Occurrence, vocab tags.Vocabulary, maxDepth int, loc locator, rep diag.Reporter) {
	var names []string
	for _, o := range occs {
		switch o.Class {
		case tags.BlockOpen:
			if !vocab.IsPaired(o) {
				continue
			}
			names = append(names, o.Name)
			if depth := len(names); depth > maxDepth {
				diag.ReportError(rep, diag.TagTooDeep, loc.span(o), fmt.Sprintf("Excessive nesting depth (%d)", depth)).
					WithTag(o.Name).
					WithSuggestion("Consider breaking complex logic into smaller templates").
					Emit()
			}
		case tags.BlockClose:
			if n := len(names); n > 0 && names[n-1] == o.Name {
				names = names[:n-1]
			}
		}
	}
}
