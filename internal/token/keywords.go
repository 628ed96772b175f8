package token

var keywords = map[string]Kind{
	"and":   KwAnd,
	"or":    KwOr,
	"not":   KwNot,
	"in":    KwIn,
	"is":    KwIs,
	"true":  KwTrue,
	"True":  KwTrue,
	"false": KwFalse,
	"False": KwFalse,
	"none":  KwNone,
	"None":  KwNone,
}

// LookupKeyword reports whether ident is a word operator or constant of the
// expression grammar.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
