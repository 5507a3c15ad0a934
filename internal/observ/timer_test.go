package observ

import (
	"errors"
	"strings"
	"testing"
)

func TestTimerMeasure(t *testing.T) {
	tm := NewTimer()
	if err := tm.Measure("load", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := tm.Measure("emit", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected error passthrough, got %v", err)
	}
	tm.End(99, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[1].Note != "failed" {
		t.Fatalf("expected failed note, got %q", report.Phases[1].Note)
	}
	if s := tm.Summary(); !strings.Contains(s, "load") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestTimerAppend(t *testing.T) {
	a, b := NewTimer(), NewTimer()
	a.End(a.Begin("load"), "")
	b.End(b.Begin("runtime"), "")
	a.Append(b)
	a.Append(nil)
	report := a.Report()
	if len(report.Phases) != 2 || report.Phases[1].Name != "runtime" {
		t.Fatalf("unexpected phases %+v", report.Phases)
	}
}
