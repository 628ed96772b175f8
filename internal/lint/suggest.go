package lint

import (
	"slices"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// maxSuggestionDistance is the largest edit distance offered as "did you mean".
const maxSuggestionDistance = 2

type suggestion struct {
	word string
	dist int
}

// suggestWords returns vocabulary words close to needle, nearest first.
func suggestWords(needle string, haystack []string, maxDist int) []string {
	r := []rune(needle)
	options := make([]suggestion, 0, len(haystack))
	for _, straw := range haystack {
		if straw == "" || straw == needle {
			continue
		}
		dist := levenshtein.DistanceForStrings(r, []rune(straw), levenshtein.DefaultOptions)
		if dist <= maxDist {
			options = append(options, suggestion{word: straw, dist: dist})
		}
	}
	slices.SortStableFunc(options, func(a, b suggestion) int {
		if a.dist != b.dist {
			return a.dist - b.dist
		}
		return strings.Compare(a.word, b.word)
	})
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.word
	}
	return out
}

// didYouMean formats the nearest suggestion, or "" when nothing is close.
func didYouMean(needle string, haystack []string) string {
	options := suggestWords(needle, haystack, maxSuggestionDistance)
	if len(options) == 0 {
		return ""
	}
	return " (did you mean '" + options[0] + "'?)"
}
