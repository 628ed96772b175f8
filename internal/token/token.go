package token

import (
	"doclint/internal/source"
)

// Token represents a single template token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, none or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNone:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the token opens a tag.
func (t Token) IsOpen() bool {
	return t.Kind == VarOpen || t.Kind == BlockOpen
}

// IsClose reports whether the token closes a tag.
func (t Token) IsClose() bool {
	return t.Kind == VarClose || t.Kind == BlockClose
}

// Synthetic reports whether the token was inserted during error recovery.
func (t Token) Synthetic() bool {
	return t.Span.Empty() && t.Kind != EOF
}

// IsKeyword reports whether the token is a word operator or constant.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAnd && t.Kind <= KwNone
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsWord reports whether the token is an identifier or keyword spelled word.
func (t Token) IsWord(word string) bool {
	return (t.Kind == Ident || t.IsKeyword()) && t.Text == word
}
