package tags

import (
	"maps"
	"slices"
	"strings"
)

type wordSet map[string]struct{}

func newWordSet(words ...string) wordSet {
	s := make(wordSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

func (s wordSet) has(w string) bool {
	_, ok := s[w]
	return ok
}

// Vocabulary lists the block tag names the matcher knows about.
type Vocabulary struct {
	// Paired tags require a closer.
	Paired wordSet
	// Standalone tags are block-shaped but never closed.
	Standalone wordSet
	// BlockForms are standalone when they carry "=" and paired otherwise:
	// "{% set x = 1 %}" vs "{% set x %}...{% endset %}".
	BlockForms wordSet
}

// DefaultVocabulary returns the Jinja tags plus the docxtpl leaf tags.
func DefaultVocabulary() Vocabulary {
	paired := []string{
		"if", "for", "with", "block", "macro", "call",
		"filter", "trans", "pluralize", "raw", "autoescape",
	}
	standalone := []string{
		"else", "elif", "include", "import", "from", "extends",
		"break", "continue", "set", "do",
		// docxtpl
		"cellbg", "colspan", "hm", "vm",
	}
	for _, p := range paired {
		standalone = append(standalone, "end"+p)
	}
	return NewVocabulary(paired, standalone, []string{"set"})
}

// NewVocabulary builds a Vocabulary from word lists; words are lowercased.
func NewVocabulary(paired, standalone, blockForms []string) Vocabulary {
	lower := func(in []string) []string {
		out := make([]string, len(in))
		for i, w := range in {
			out[i] = strings.ToLower(w)
		}
		return out
	}
	v := Vocabulary{
		Paired:     newWordSet(lower(paired)...),
		Standalone: newWordSet(lower(standalone)...),
		BlockForms: newWordSet(lower(blockForms)...),
	}
	for w := range v.BlockForms {
		v.Standalone["end"+w] = struct{}{}
	}
	return v
}

// IsPaired reports whether the block opener needs a closer.
func (v Vocabulary) IsPaired(o Occurrence) bool {
	if v.Paired.has(o.Name) {
		return true
	}
	return v.BlockForms.has(o.Name) && !strings.Contains(o.Args, "=")
}

// IsStandalone reports whether the block opener is a known leaf tag.
func (v Vocabulary) IsStandalone(o Occurrence) bool {
	return v.Standalone.has(o.Name) || v.BlockForms.has(o.Name)
}

// Known reports whether word is any tag name of the vocabulary.
func (v Vocabulary) Known(word string) bool {
	return v.Paired.has(word) || v.Standalone.has(word) || v.BlockForms.has(word)
}

// Words returns every known tag name in sorted order.
func (v Vocabulary) Words() []string {
	all := make(wordSet, len(v.Paired)+len(v.Standalone))
	maps.Copy(all, v.Paired)
	maps.Copy(all, v.Standalone)
	maps.Copy(all, v.BlockForms)
	return slices.Sorted(maps.Keys(all))
}
