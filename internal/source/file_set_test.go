package source

import (
	"strings"
	"testing"
)

func TestFileSetIDs(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("invoice.docx", []byte("Hi {{name}}"), 0)
	id2 := fs.Add("invoice.docx", []byte("Hi {{customer}}"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("want ids 0 and 1, got %d and %d", id1, id2)
	}
	if got := string(fs.Get(id1).Content); got != "Hi {{name}}" {
		t.Errorf("first document lost, got %q", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("Get of an unknown id must panic")
		}
	}()
	fs.Get(7)
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.txt", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 3 {
		t.Errorf("Expected 3 lines, got %d", file.LineCount())
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	lines := []string{"Hi {{name}}", "{% if vip %}", "", "{% endif %}"}
	file := fs.Get(fs.Add("doc", []byte(strings.Join(lines, "\n")), 0))

	for i, want := range lines {
		got := file.GetLine(uint32(i + 1))
		if got != want {
			t.Errorf("line %d: want %q, got %q", i+1, want, got)
		}
	}
	if got := file.GetLine(5); got != "" {
		t.Errorf("out of range line should be empty, got %q", got)
	}
	if got := file.GetLine(0); got != "" {
		t.Errorf("line 0 should be empty, got %q", got)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("doc", []byte("ab\n{% if %}\nc"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // сам \n принадлежит первой строке
		{3, LineCol{2, 1}},
		{6, LineCol{2, 4}},
		{12, LineCol{3, 1}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: want %+v, got %+v", tt.off, tt.want, start)
		}
	}
}

func TestLineStart(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("doc", []byte("ab\n{% if %}\nc")))
	for line, want := range map[int]uint32{1: 0, 2: 3, 3: 12, 9: 13} {
		if got := file.LineStart(line); got != want {
			t.Errorf("LineStart(%d): want %d, got %d", line, want, got)
		}
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 8}
	b := Span{File: 1, Start: 2, End: 6}
	if got := a.Cover(b); got.Start != 2 || got.End != 8 {
		t.Fatalf("Cover: got %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 100}); got != a {
		t.Fatalf("Cover across files must be a no-op, got %v", got)
	}
	if !At(0, 5).Empty() || At(0, 5).Len() != 0 || a.Len() != 4 {
		t.Fatal("Empty/Len are wrong")
	}
	if (Span{Start: 5, End: 3}).Len() != 0 {
		t.Fatal("inverted span must have zero length")
	}
}
