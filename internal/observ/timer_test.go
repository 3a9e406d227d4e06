package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("load")
	tm.End(idx, "3 files")
	_ = tm.Measure("check", func() error { return errors.New("boom") })
	tm.End(99, "ignored")

	r := tm.Report()
	if len(r.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(r.Phases))
	}
	if r.Phases[0].Note != "3 files" || r.Phases[1].Note != "failed" {
		t.Errorf("notes = %q, %q", r.Phases[0].Note, r.Phases[1].Note)
	}
	if r.TotalMS < r.Phases[0].DurationMS {
		t.Error("total smaller than a phase")
	}

	s := tm.Summary()
	for _, want := range []string{"timings:", "load", "// 3 files", "total"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestNilTimerIsInert(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Report().Phases) != 0 {
		t.Error("nil timer reported phases")
	}
}
