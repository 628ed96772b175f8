package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("syntax")
	time.Sleep(time.Millisecond)
	tm.End(idx, "2 errors")
	tm.End(42, "ignored")
	tm.End(tm.Begin("quality"), "")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("want 2 phases, got %+v", rep.Phases)
	}
	if rep.Phases[0].Name != "syntax" || rep.Phases[0].Note != "2 errors" {
		t.Fatalf("unexpected phase %+v", rep.Phases[0])
	}
	if rep.Phases[0].DurationMS < 1 || rep.TotalMS < rep.Phases[0].DurationMS {
		t.Fatalf("durations are off: %+v", rep)
	}

	sum := rep.String()
	if !strings.Contains(sum, "syntax") || !strings.Contains(sum, "// 2 errors") || !strings.Contains(sum, "total") {
		t.Fatalf("summary:\n%s", sum)
	}
}

func TestEmptyTimer(t *testing.T) {
	if rep := NewTimer().Report(); rep.TotalMS != 0 || rep.Phases != nil {
		t.Fatalf("want zero report, got %+v", rep)
	}
}

func TestMerge(t *testing.T) {
	a := Report{TotalMS: 3, Phases: []PhaseReport{{Name: "extract", DurationMS: 1}, {Name: "syntax", DurationMS: 2, Note: "0 errors"}}}
	b := Report{TotalMS: 4, Phases: []PhaseReport{{Name: "syntax", DurationMS: 3}, {Name: "quality", DurationMS: 1}}}

	m := Merge(a, b)
	if m.TotalMS != 7 || len(m.Phases) != 3 {
		t.Fatalf("unexpected merge %+v", m)
	}
	if m.Phases[1].Name != "syntax" || m.Phases[1].DurationMS != 5 || m.Phases[1].Note != "" {
		t.Fatalf("syntax not summed: %+v", m.Phases[1])
	}
	if m.Phases[2].Name != "quality" {
		t.Fatalf("order lost: %+v", m.Phases)
	}
}
