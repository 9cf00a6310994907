package observ

import "testing"

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	load := tm.Begin("load")
	tm.End(load, "3 modules")
	sem := tm.Begin("semanal")
	tm.End(sem, "2 iterations")
	tm.End(42, "ignored")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(rep.Phases))
	}
	if rep.Phases[1].Note != "2 iterations" {
		t.Fatalf("unexpected note %q", rep.Phases[1].Note)
	}

	var nilTimer *Timer
	if idx := nilTimer.Begin("x"); idx != -1 {
		t.Fatalf("nil timer must be inert")
	}
}

func TestSum(t *testing.T) {
	a := &Report{TotalMS: 3, Phases: []PhaseReport{{Name: "load", DurationMS: 1}, {Name: "semanal", DurationMS: 2}}}
	b := &Report{TotalMS: 4, Phases: []PhaseReport{{Name: "cache", DurationMS: 0.5}, {Name: "load", DurationMS: 3.5, Note: "x"}}}
	sum := Sum(a, nil, b)
	if sum.TotalMS != 7 || len(sum.Phases) != 3 {
		t.Fatalf("unexpected sum %+v", sum)
	}
	if sum.Phases[0].Name != "load" || sum.Phases[0].DurationMS != 4.5 || sum.Phases[0].Note != "" {
		t.Fatalf("load not merged: %+v", sum.Phases[0])
	}
	if sum.Phases[2].Name != "cache" {
		t.Fatalf("phase order: %+v", sum.Phases)
	}
}
