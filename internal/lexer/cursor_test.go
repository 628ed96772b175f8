package lexer

import (
	"testing"
	"unicode/utf8"

	"doclint/internal/source"
)

// helper function to create a file
func createFile(content string) (*source.FileSet, *source.File) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.docx", []byte(content))
	return fs, fs.Get(id)
}

// TestSequentialReading проверяет последовательное чтение: "a\nb" → a, \n, b, EOF
func TestSequentialReading(t *testing.T) {
	_, file := createFile("a\nb")
	cursor := NewCursor(file)

	for _, want := range []byte("a\nb") {
		if cursor.EOF() {
			t.Fatalf("unexpected EOF before %q", want)
		}
		if got := cursor.Bump(); got != want {
			t.Fatalf("Expected bump %q, got %q", want, got)
		}
	}
	if !cursor.EOF() {
		t.Error("Expected EOF at end")
	}
	if cursor.Bump() != 0 || cursor.Peek() != 0 {
		t.Error("Expected zero bytes past EOF")
	}
}

func TestPeek2(t *testing.T) {
	_, file := createFile("{%")
	cursor := NewCursor(file)

	b0, b1, ok := cursor.Peek2()
	if !ok || b0 != '{' || b1 != '%' {
		t.Fatalf("Expected Peek2('{', '%%'), got (%q, %q, %v)", b0, b1, ok)
	}
	cursor.Bump()
	if _, _, ok := cursor.Peek2(); ok {
		t.Error("Expected Peek2 to fail at end")
	}
}

// TestSpanFromResolve проверяет SpanFrom и Resolve с UTF-8
func TestSpanFromResolve(t *testing.T) {
	fs, file := createFile("α\nβ")
	cursor := NewCursor(file)

	mark := cursor.Mark()
	cursor.Bump() // первый байт α
	cursor.Bump() // второй байт α
	span := cursor.SpanFrom(mark)
	if span.Start != 0 || span.End != 2 {
		t.Fatalf("Expected span (0,2), got (%d,%d)", span.Start, span.End)
	}

	start, end := fs.Resolve(span)
	if start != (source.LineCol{Line: 1, Col: 1}) {
		t.Errorf("Expected start 1:1, got %+v", start)
	}
	if end != (source.LineCol{Line: 1, Col: 3}) {
		t.Errorf("Expected end 1:3 (byte column of \\n), got %+v", end)
	}

	cursor.Bump() // '\n'
	mark2 := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	start2, _ := fs.Resolve(cursor.SpanFrom(mark2))
	if start2 != (source.LineCol{Line: 2, Col: 1}) {
		t.Errorf("Expected β at 2:1, got %+v", start2)
	}
}

// TestEatAndPrefix проверяет Eat, HasPrefix и Advance
func TestEatAndPrefix(t *testing.T) {
	_, file := createFile("{{- x }}")
	cursor := NewCursor(file)

	if !cursor.HasPrefix("{{") || cursor.HasPrefix("{%") || cursor.HasPrefix("") {
		t.Fatal("HasPrefix is wrong")
	}
	cursor.Advance(2)
	if !cursor.Eat('-') {
		t.Fatal("Expected Eat('-') to succeed")
	}
	if cursor.Eat('x') {
		t.Fatal("Expected Eat('x') to fail on space")
	}
	cursor.Advance(100)
	if !cursor.EOF() {
		t.Fatal("Advance must stop at the limit")
	}
	if cursor.Rest() != nil {
		t.Fatal("Rest at EOF must be nil")
	}
}

// TestMarkReset проверяет работу Mark и Reset
func TestMarkReset(t *testing.T) {
	_, file := createFile("abc")
	cursor := NewCursor(file)

	mark1 := cursor.Mark()
	cursor.Bump()
	mark2 := cursor.Mark()
	cursor.Bump()

	cursor.Reset(mark2)
	if cursor.Peek() != 'b' {
		t.Errorf("Expected peek 'b' after reset to mark2, got %c", cursor.Peek())
	}
	cursor.Reset(mark1)
	if cursor.Peek() != 'a' {
		t.Errorf("Expected peek 'a' after reset to mark1, got %c", cursor.Peek())
	}
}

func TestAcceptAndRunes(t *testing.T) {
	_, file := createFile("**я\xff")
	cursor := NewCursor(file)

	if cursor.Accept("*=") || !cursor.Accept("**") {
		t.Fatal("Accept must consume only a matching prefix")
	}
	if r, size := cursor.PeekRune(); r != 'я' || size != 2 {
		t.Fatalf("want я/2, got %q/%d", r, size)
	}
	cursor.BumpRune()
	if r, size := cursor.PeekRune(); r != utf8.RuneError || size != 1 {
		t.Fatalf("broken byte: got %q/%d", r, size)
	}
	cursor.BumpRune()
	if !cursor.EOF() || cursor.Offset() != 5 {
		t.Fatalf("want EOF at 5, got %d", cursor.Offset())
	}
	cursor.Seek(-3)
	if cursor.Pos() != 0 {
		t.Fatal("Seek must clamp at the start")
	}
}
