package dialect

import "strings"

// Split is the result of separating a prefix from the start of a tag body.
type Split struct {
	Prefix  string // recognized prefix, lowercased
	Foreign string // unrecognized prefix-shaped word, lowercased
	Name    string // first identifier after the prefix, as written
	Args    string // remainder after Name
}

// Scope returns the structural scope of the split.
func (sp Split) Scope(set Set) Scope {
	if sp.Prefix != "" {
		sc, _ := set.Lookup(sp.Prefix)
		return sc
	}
	if sp.Foreign != "" {
		return ScopeForeign
	}
	return ScopeNone
}

// Rules controls prefix detection for one tag class.
type Rules struct {
	Set Set
	// AllowForeign enables foreign prefixes. Only meaningful for block and
	// comment tags; in expressions "{{a and b}}" must stay an expression.
	AllowForeign bool
	// Known reports tag names that must never be read as a prefix.
	Known func(word string) bool
}

// SplitPrefix splits body, the text right after the opening delimiter and the
// optional whitespace-control marker.
//
// A recognized prefix may be separated from the delimiter by whitespace
// ("{% p if x %}"); a foreign prefix must be glued to it ("{%xx foo %}").
// Either way the prefix must be followed by whitespace and another identifier,
// so "{% raw %}" stays the raw tag.
func (r Rules) SplitPrefix(body string) Split {
	glued := body != "" && !isSpace(body[0])
	s := strings.TrimLeft(body, " \t\r\n")

	w1, rest1 := readIdent(s)
	if w1 == "" {
		return Split{Args: s}
	}
	if rest1 == "" || !isSpace(rest1[0]) {
		return Split{Name: w1, Args: rest1}
	}
	w2, rest2 := readIdent(strings.TrimLeft(rest1, " \t\r\n"))
	if w2 == "" {
		return Split{Name: w1, Args: rest1}
	}

	lw := strings.ToLower(w1)
	known := r.Known != nil && r.Known(lw)
	if !known {
		if _, ok := r.Set.Lookup(lw); ok {
			return Split{Prefix: lw, Name: w2, Args: rest2}
		}
		if r.AllowForeign && glued && IsCandidate(lw) {
			return Split{Foreign: lw, Name: w2, Args: rest2}
		}
	}
	return Split{Name: w1, Args: rest1}
}

func readIdent(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
