package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические (разбор разделителей тегов)
	LexInfo                Code = 1000
	LexUnknownChar         Code = 1001
	LexUnterminatedString  Code = 1002
	LexUnterminatedComment Code = 1003
	LexUnterminatedTag     Code = 1004
	LexUnterminatedRaw     Code = 1005
	LexBadNumber           Code = 1006

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynExpectExpression Code = 2002
	SynUnclosedParen    Code = 2003
	SynUnclosedBracket  Code = 2004
	SynUnclosedBrace    Code = 2005
	SynExpectIdentifier Code = 2006
	SynForMissingIn     Code = 2007
	SynTrailingTokens   Code = 2008
	SynEmptyTag         Code = 2009
	SynExpectString     Code = 2010
	SynExpectKeyword    Code = 2011
	SynInternal         Code = 2099

	// Парность и вложенность тегов
	TagInfo       Code = 3000
	TagUnknown    Code = 3001
	TagMismatched Code = 3002
	TagStrayClose Code = 3003
	TagUnclosed   Code = 3004
	TagTooDeep    Code = 3005

	// Качество
	QltInfo              Code = 4000
	QltLongLine          Code = 4001
	QltComplexExpression Code = 4002
	QltSuspiciousSyntax  Code = 4003
	QltUnusedVariable    Code = 4004

	// Документ
	DocInfo          Code = 5000
	DocExtractFailed Code = 5001
	DocEmpty         Code = 5002
	DocInternal      Code = 5003

	// Семантика (зарезервировано)
	SemInfo              Code = 6000
	SemUndefinedVariable Code = 6001
	SemInvalidExpression Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LexInfo:                "Lexical information",
		LexUnknownChar:         "Unknown character in tag",
		LexUnterminatedString:  "Unterminated string literal",
		LexUnterminatedComment: "Unterminated comment",
		LexUnterminatedTag:     "Unterminated tag",
		LexUnterminatedRaw:     "Unterminated raw block",
		LexBadNumber:           "Malformed number literal",

		SynInfo:             "Syntax information",
		SynUnexpectedToken:  "Unexpected token",
		SynExpectExpression: "Expected expression",
		SynUnclosedParen:    "Unclosed parenthesis",
		SynUnclosedBracket:  "Unclosed bracket",
		SynUnclosedBrace:    "Unclosed brace",
		SynExpectIdentifier: "Expected identifier",
		SynForMissingIn:     "Loop header without 'in'",
		SynTrailingTokens:   "Unexpected tokens at end of tag",
		SynEmptyTag:         "Empty tag",
		SynExpectString:     "Expected template name",
		SynExpectKeyword:    "Expected keyword",
		SynInternal:         "Template error",

		TagInfo:       "Tag information",
		TagUnknown:    "Unknown tag",
		TagMismatched: "Mismatched closing tag",
		TagStrayClose: "Closing tag without opening tag",
		TagUnclosed:   "Unclosed tag",
		TagTooDeep:    "Excessive nesting depth",

		QltInfo:              "Quality information",
		QltLongLine:          "Line too long",
		QltComplexExpression: "Complex expression",
		QltSuspiciousSyntax:  "Suspicious syntax",
		QltUnusedVariable:    "Unused variable",

		DocInfo:          "Document information",
		DocExtractFailed: "Document could not be read",
		DocEmpty:         "No template content",
		DocInternal:      "Unexpected internal error",

		SemInfo:              "Semantic information",
		SemUndefinedVariable: "Undefined variable",
		SemInvalidExpression: "Invalid expression",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("TAG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("QLT%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("DOC%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("SEM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// IsSyntax reports whether the code is produced while lexing or parsing tags.
func (c Code) IsSyntax() bool {
	return c >= LexInfo && c < TagInfo
}
