package dialect

import (
	"fmt"
	"slices"
	"strings"
)

// Scope is the structural unit a prefix restricts a tag to.
type Scope uint8

const (
	ScopeNone Scope = iota
	ScopeParagraph
	ScopeRow
	ScopeCell
	ScopeRun
	// ScopeCustom is used for prefixes configured by the user.
	ScopeCustom
	// ScopeForeign marks a prefix-shaped word that is not in the Set.
	ScopeForeign
)

func (s Scope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeParagraph:
		return "paragraph"
	case ScopeRow:
		return "row"
	case ScopeCell:
		return "cell"
	case ScopeRun:
		return "run"
	case ScopeCustom:
		return "custom"
	case ScopeForeign:
		return "foreign"
	default:
		return "unknown"
	}
}

// MaxPrefixLen bounds the length of a prefix word.
const MaxPrefixLen = 2

// Set is an immutable collection of recognized prefixes.
type Set struct {
	byName map[string]Scope
}

// Docxtpl returns the prefixes understood by python-docxtpl.
func Docxtpl() Set {
	return Set{byName: map[string]Scope{
		"p":  ScopeParagraph,
		"tr": ScopeRow,
		"tc": ScopeCell,
		"r":  ScopeRun,
	}}
}

// NewSet builds a Set from prefix names. Known docxtpl names keep their scope,
// anything else becomes ScopeCustom. Names longer than MaxPrefixLen are rejected.
func NewSet(names ...string) (Set, error) {
	std := Docxtpl()
	out := Set{byName: make(map[string]Scope, len(names))}
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if len(name) > MaxPrefixLen || !isLowerWord(name) {
			return Set{}, fmt.Errorf("invalid dialect prefix %q: want 1-%d lowercase letters", raw, MaxPrefixLen)
		}
		if sc, ok := std.byName[name]; ok {
			out.byName[name] = sc
			continue
		}
		out.byName[name] = ScopeCustom
	}
	return out, nil
}

// Lookup reports the scope of a recognized prefix.
func (s Set) Lookup(name string) (Scope, bool) {
	sc, ok := s.byName[name]
	return sc, ok
}

// Names returns the recognized prefixes in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.byName))
	for n := range s.byName {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of recognized prefixes.
func (s Set) Len() int { return len(s.byName) }

// IsCandidate reports whether word has the shape of a prefix.
func IsCandidate(word string) bool {
	return len(word) > 0 && len(word) <= MaxPrefixLen && isLowerWord(word)
}

func isLowerWord(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}
