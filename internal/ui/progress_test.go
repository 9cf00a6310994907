package ui

import (
	"strings"
	"testing"

	"ormsynth/internal/pipeline"
)

func TestApplyEventTracksPrograms(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("analyze", []string{"a.toml", "b.toml"}, events).(*progressModel)

	m.applyEvent(pipeline.Event{Program: "a.toml", Stage: pipeline.StageSemanal, Status: pipeline.StatusWorking})
	if m.items[0].status != "analyzing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(pipeline.Event{Program: "b.toml", Status: pipeline.StatusCached, Detail: "2 classes"})
	if got := m.percent(); got != 0.75 {
		t.Fatalf("percent = %v, want 0.75", got)
	}
	m.applyEvent(pipeline.Event{Program: "a.toml", Status: pipeline.StatusError})
	if got := m.percent(); got != 1.0 {
		t.Fatalf("percent = %v, want 1", got)
	}
	m.applyEvent(pipeline.Event{Program: "unknown.toml", Status: pipeline.StatusDone})

	view := m.View()
	for _, want := range []string{"analyze 2/2", "a.toml", "b.toml", "error", "cached", "2 classes"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view misses %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("shop/models/books.toml", 10); got != "shop/mo..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
}
