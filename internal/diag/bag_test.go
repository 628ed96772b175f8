package diag

import (
	"testing"

	"doclint/internal/source"
)

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if b.HasErrors() {
		t.Fatal("empty bag has no errors")
	}
	b.Add(New(SevWarning, QltLongLine, source.Span{}, "w"))
	for i := 0; i < 3; i++ {
		b.Add(New(SevError, TagUnclosed, source.Span{}, "x"))
	}
	if b.Len() != 2 {
		t.Fatalf("want 2 items, got %d", b.Len())
	}
	if !b.HasWarnings() || !b.HasErrors() {
		t.Fatalf("unexpected items %+v", b.Items())
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	ReportError(r, LexUnknownChar, sp, "unexpected char '@'").Emit()
	ReportError(r, LexUnknownChar, sp, "unexpected char '@'").Emit()
	ReportError(r, LexUnknownChar, sp, "unexpected char '$'").WithSuggestion("remove it").Emit()

	if bag.Len() != 2 {
		t.Fatalf("want 2 diagnostics, got %d", bag.Len())
	}
	if got := bag.Items()[1].Suggestion; got != "remove it" {
		t.Fatalf("suggestion lost: %q", got)
	}
}

func TestSeverity(t *testing.T) {
	if SevWarning.String() != "warning" || Severity(9).String() != "Severity(9)" {
		t.Fatalf("names: %s %s", SevWarning, Severity(9))
	}
	if SevWarning.Fails() || !SevError.Fails() {
		t.Fatal("only errors fail")
	}
	unlimited := NewBag(0)
	for i := 0; i < 100; i++ {
		unlimited.Add(New(SevInfo, QltLongLine, source.Span{}, "i"))
	}
	if unlimited.Len() != 100 || unlimited.HasWarnings() {
		t.Fatalf("unexpected bag state %d", unlimited.Len())
	}
}

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnterminatedTag, "LEX1004"},
		{SynForMissingIn, "SYN2007"},
		{TagUnclosed, "TAG3004"},
		{QltSuspiciousSyntax, "QLT4003"},
		{DocEmpty, "DOC5002"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d: want %s, got %s", tt.code, tt.want, got)
		}
	}
	if !SynEmptyTag.IsSyntax() || TagUnknown.IsSyntax() {
		t.Fatal("IsSyntax range is wrong")
	}
}
