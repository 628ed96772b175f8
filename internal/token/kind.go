package token

// Kind represents the category of a template token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the document text.
	EOF

	// Data is literal document text outside of tags.
	Data
	// RawData is the verbatim body of a {% raw %} section.
	RawData
	// Comment is a whole comment tag including delimiters.
	Comment

	// VarOpen opens an expression tag.
	VarOpen // {{
	// VarClose closes an expression tag.
	VarClose // }}
	// BlockOpen opens a statement tag.
	BlockOpen // {%
	// BlockClose closes a statement tag.
	BlockClose // %}

	// Ident represents an identifier.
	Ident
	// IntLit represents an integer literal.
	IntLit
	// FloatLit represents a float literal.
	FloatLit
	// StringLit represents a quoted string literal.
	StringLit

	KwAnd   // and
	KwOr    // or
	KwNot   // not
	KwIn    // in
	KwIs    // is
	KwTrue  // true / True
	KwFalse // false / False
	KwNone  // none / None

	Plus       // +
	Minus      // -
	Star       // *
	StarStar   // **
	Slash      // /
	SlashSlash // //
	Percent    // %
	Tilde      // ~
	Pipe       // |
	Dot        // .
	Comma      // ,
	Colon      // :
	Assign     // =
	EqEq       // ==
	BangEq     // !=
	Lt         // <
	LtEq       // <=
	Gt         // >
	GtEq       // >=
	LParen     // (
	RParen     // )
	LBracket   // [
	RBracket   // ]
	LBrace     // {
	RBrace     // }

	kindCount
)

var kindNames = [kindCount]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Data:       "Data",
	RawData:    "RawData",
	Comment:    "Comment",
	VarOpen:    "VarOpen",
	VarClose:   "VarClose",
	BlockOpen:  "BlockOpen",
	BlockClose: "BlockClose",
	Ident:      "Ident",
	IntLit:     "IntLit",
	FloatLit:   "FloatLit",
	StringLit:  "StringLit",
	KwAnd:      "and",
	KwOr:       "or",
	KwNot:      "not",
	KwIn:       "in",
	KwIs:       "is",
	KwTrue:     "true",
	KwFalse:    "false",
	KwNone:     "none",
	Plus:       "+",
	Minus:      "-",
	Star:       "*",
	StarStar:   "**",
	Slash:      "/",
	SlashSlash: "//",
	Percent:    "%",
	Tilde:      "~",
	Pipe:       "|",
	Dot:        ".",
	Comma:      ",",
	Colon:      ":",
	Assign:     "=",
	EqEq:       "==",
	BangEq:     "!=",
	Lt:         "<",
	LtEq:       "<=",
	Gt:         ">",
	GtEq:       ">=",
	LParen:     "(",
	RParen:     ")",
	LBracket:   "[",
	RBracket:   "]",
	LBrace:     "{",
	RBrace:     "}",
}

func (k Kind) String() string {
	if k < kindCount && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
