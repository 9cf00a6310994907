package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"ormsynth/internal/diag"
	"ormsynth/internal/driver"
	"ormsynth/internal/observ"
)

func sample() []*driver.Snapshot {
	return []*driver.Snapshot{
		{
			Program:    "shop.toml",
			Iterations: 2,
			Converged:  true,
			Classes: []driver.ClassInfo{{
				Fullname: "shop.models.ManagerFromBookQuerySet",
				Module:   "shop.models",
				Bases:    []string{"django.db.models.manager.Manager[Any]"},
				Methods:  []string{"published"},
				Pos:      "shop.toml#shop.models:10:15",
			}},
			Registry: []driver.RegistryEntry{{
				Holder:   "django.db.models.manager.Manager",
				Key:      "django.db.models.manager.ManagerFromBookQuerySet",
				Fullname: "shop.models.ManagerFromBookQuerySet",
			}},
			Inferred: []driver.TypeInfo{{Module: "shop.models", Name: "Book.objects", Type: "shop.models.ManagerFromBookQuerySet"}},
			Reveals:  []driver.TypeInfo{{Module: "shop.views", Name: "request.user", Type: "User | AnonymousUser"}},
			Diagnostics: []driver.DiagnosticInfo{
				{Severity: diag.SevInfo.String(), Code: diag.SemaRevealType.ID(), Message: "Revealed type is \"User | AnonymousUser\"", Pos: "shop.toml#shop.views:3:1"},
			},
			Timings: &observ.Report{TotalMS: 1.5, Phases: []observ.PhaseReport{{Name: "load", DurationMS: 1.5}}},
		},
		{
			Program: "broken.toml",
			Diagnostics: []driver.DiagnosticInfo{
				{Severity: diag.SevError.String(), Code: diag.SynUnexpectedToken.ID(), Message: "expected ')'", Pos: "broken.toml#broken:9:28"},
			},
		},
		nil,
	}
}

func TestTextReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sample(), Options{}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"shop.toml (2 iterations)",
		"shop.models.ManagerFromBookQuerySet(django.db.models.manager.Manager[Any])",
		"methods: published",
		"django.db.models.manager.ManagerFromBookQuerySet -> shop.models.ManagerFromBookQuerySet",
		"shop.models.Book.objects  shop.models.ManagerFromBookQuerySet",
		"broken.toml#broken:9:28: ERROR SYN2001: expected ')'",
		"2 programs, 1 generated class, 1 error",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Revealed type") || strings.Contains(out, "timings") {
		t.Fatalf("info output shown without being asked:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colors leaked into plain output")
	}
}

func TestTextReportOptionalSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sample(), Options{ShowInfo: true, Timings: true}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"INFO SEM3011", "timings", "total"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestTextReportWidth(t *testing.T) {
	var buf bytes.Buffer
	if err := Text(&buf, sample(), Options{Width: 20}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		if len(line) > 20 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
}

func TestJSONReport(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sample()); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out struct {
		Programs []struct {
			Program  string `json:"program"`
			Registry []struct {
				Key string `json:"key"`
			} `json:"registry"`
		} `json:"programs"`
		Summary Summary `json:"summary"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(out.Programs) != 2 || out.Programs[0].Program != "shop.toml" {
		t.Fatalf("programs = %+v", out.Programs)
	}
	if len(out.Programs[0].Registry) != 1 {
		t.Fatalf("registry = %+v", out.Programs[0].Registry)
	}
	if out.Summary != (Summary{Programs: 2, Classes: 1, Errors: 1}) {
		t.Fatalf("summary = %+v", out.Summary)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "pretty": FormatText, "JSON": FormatJSON} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestTextReportDropped(t *testing.T) {
	snaps := sample()
	snaps[1].Dropped = 4
	var buf bytes.Buffer
	if err := Text(&buf, snaps, Options{}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(buf.String(), "... 4 more diagnostics past the limit") {
		t.Fatalf("missing dropped line:\n%s", buf.String())
	}
}

func TestTimingsAcrossPrograms(t *testing.T) {
	snaps := sample()
	snaps[1].Timings = &observ.Report{TotalMS: 2, Phases: []observ.PhaseReport{{Name: "load", DurationMS: 2}}}

	var buf bytes.Buffer
	if err := Text(&buf, snaps, Options{Timings: true}); err != nil {
		t.Fatalf("Text: %v", err)
	}
	if !strings.Contains(buf.String(), "timings (2 programs)") {
		t.Fatalf("missing aggregate timings:\n%s", buf.String())
	}

	out := BuildOutput(snaps)
	if out.Timings == nil || out.Timings.TotalMS != 3.5 {
		t.Fatalf("json timings = %+v", out.Timings)
	}
}
