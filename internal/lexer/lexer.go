package lexer

import (
	"doclint/internal/source"
	"doclint/internal/token"
)

type mode uint8

const (
	modeData mode = iota
	modeTag
	modeRaw
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена

	mode mode
	// состояние текущего тега
	tagOpen   token.Token
	tagClose  string
	tagBroken bool
	tagWords  int    // значимых токенов внутри тега
	tagRaw    bool   // тег состоит ровно из слова raw
	balance   []byte // открытые ( [ { внутри тега

	// кеш позиций ближайших открывающих разделителей
	nextOpen [3]int
}

func New(file *source.File, opts Options) *Lexer {
	if opts.Delims == (token.Delimiters{}) {
		opts.Delims = token.DefaultDelimiters()
	}
	return &Lexer{
		file:     file,
		cursor:   NewCursor(file),
		opts:     opts,
		nextOpen: [3]int{-1, -1, -1},
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	switch lx.mode {
	case modeTag:
		return lx.nextInTag()
	case modeRaw:
		return lx.scanRaw()
	default:
		return lx.nextInData()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// InTag reports whether the lexer is between a tag opener and its closer.
func (lx *Lexer) InTag() bool {
	return lx.mode == modeTag
}

func (lx *Lexer) emptySpan() source.Span {
	return source.At(lx.file.ID, lx.cursor.Offset())
}

func (lx *Lexer) eof() token.Token {
	return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: lx.text(sp)}
}
