package diag

import (
	"fmt"

	"doclint/internal/source"
)

// Reporter: минимальный контракт получения диагностик от стадий.
// Реализации: BagReporter, CountingReporter, DedupReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, code, primary, msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

// WithTag records the tag name the diagnostic is about.
func (b *ReportBuilder) WithTag(name string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.TagName = name
	return b
}

// WithSuggestion sets the human-readable remedy.
func (b *ReportBuilder) WithSuggestion(s string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Suggestion = s
	return b
}

// WithContext sets the text excerpt shown next to the diagnostic.
func (b *ReportBuilder) WithContext(ctx string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Context = ctx
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// CountingReporter forwards to Next and counts diagnostics per severity.
type CountingReporter struct {
	Next     Reporter
	Errors   int
	Warnings int
}

func (r *CountingReporter) Report(d Diagnostic) {
	switch d.Severity {
	case SevError:
		r.Errors++
	case SevWarning:
		r.Warnings++
	}
	if r.Next != nil {
		r.Next.Report(d)
	}
}

// DedupReporter forwards each distinct diagnostic once. Two diagnostics are
// the same when code, severity, primary span and message agree.
type DedupReporter struct {
	next Reporter
	seen map[string]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[string]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := fmt.Sprintf("%d/%d/%d:%d-%d/%s", d.Code, d.Severity, d.Primary.File, d.Primary.Start, d.Primary.End, d.Message)
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
