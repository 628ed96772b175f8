package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"and":   KwAnd,
		"or":    KwOr,
		"not":   KwNot,
		"in":    KwIn,
		"is":    KwIs,
		"True":  KwTrue,
		"false": KwFalse,
		"None":  KwNone,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// имена тегов - обычные идентификаторы
	notKw := []string{"if", "for", "endif", "set", "AND", "Or", "item", "raw"}
	for _, s := range notKw {
		if k, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) = %v, want !ok", s, k)
		}
	}
}
