package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ormsynth/internal/trace"
)

func TestParseSwitch(t *testing.T) {
	for in, want := range map[string]switchMode{"": switchAuto, "AUTO": switchAuto, " on ": switchOn, "off": switchOff} {
		got, err := parseSwitch("ui", in)
		if err != nil || got != want {
			t.Fatalf("parseSwitch(%q) = %q, %v", in, got, err)
		}
	}
	_, err := parseSwitch("color", "sometimes")
	if err == nil || !strings.Contains(err.Error(), "--color") {
		t.Fatalf("expected --color error, got %v", err)
	}
	if !switchOn.enabled(os.Stdout) || switchOff.enabled(os.Stdout) {
		t.Fatalf("explicit modes ignored")
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	info := collectVersionInfo(versionOptions{showStubs: true, showDate: true})
	if err := renderVersionJSON(&buf, info); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionInfo
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "ormsynth" || payload.BuildDate != "unknown" || payload.GitMessage != "" || payload.GitCommit != "" {
		t.Fatalf("payload = %+v", payload)
	}
	if len(payload.Stubs) != 32 {
		t.Fatalf("stubs fingerprint = %q", payload.Stubs)
	}
}

func TestRenderVersionPretty(t *testing.T) {
	var buf bytes.Buffer
	info := versionInfo{Tool: "ormsynth", Version: "1.0.0", Tagline: versionTagline}
	renderVersionPretty(&buf, info, versionOptions{})
	if !strings.HasPrefix(buf.String(), "ormsynth 1.0.0, ") || !strings.Contains(buf.String(), "--full") {
		t.Fatalf("output = %q", buf.String())
	}

	buf.Reset()
	info.GitCommit = "abc"
	renderVersionPretty(&buf, info, versionOptions{showHash: true})
	if !strings.Contains(buf.String(), "commit:  abc") || strings.Contains(buf.String(), "--full") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestLoadConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nmax_iterations = 7\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Analysis.MaxIterations != 7 {
		t.Fatalf("max_iterations = %d", cfg.Analysis.MaxIterations)
	}
}

func TestOpenCacheDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	c, err := openCache(dir)
	if err != nil {
		t.Fatalf("openCache: %v", err)
	}
	if c.Dir() != dir {
		t.Fatalf("dir = %q", c.Dir())
	}
}

func TestTraceConfig(t *testing.T) {
	saved := traceFlags
	t.Cleanup(func() { traceFlags = saved })

	traceFlags.level, traceFlags.mode, traceFlags.output = "off", "stream", ""
	if _, ok, err := traceConfig(); ok || err != nil {
		t.Fatalf("tracing should stay off: ok=%v err=%v", ok, err)
	}

	traceFlags.output = "run.ndjson"
	cfg, ok, err := traceConfig()
	if err != nil || !ok || cfg.Level != trace.LevelPhase || cfg.OutputPath != "run.ndjson" {
		t.Fatalf("output alone should enable phase tracing: %+v ok=%v err=%v", cfg, ok, err)
	}

	traceFlags.level, traceFlags.output, traceFlags.mode = "debug", "", "ring"
	cfg, _, err = traceConfig()
	if err != nil || cfg.OutputPath != "-" || cfg.Mode != trace.ModeRing {
		t.Fatalf("unexpected config %+v err=%v", cfg, err)
	}

	traceFlags.mode = "tape"
	if _, _, err := traceConfig(); err == nil || !strings.Contains(err.Error(), "--trace-mode") {
		t.Fatalf("expected a --trace-mode error, got %v", err)
	}
}
