package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		CPU: filepath.Join(dir, "cpu.pprof"),
		Mem: filepath.Join(dir, "mem.pprof"),
	}
	s, err := Start(opts)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	for _, path := range []string{opts.CPU, opts.Mem} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("profile %s missing: %v", path, err)
		}
	}
}

func TestEmptyOptionsDoNothing(t *testing.T) {
	s, err := Start(Options{})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	var none *Session
	if err := none.Stop(); err != nil {
		t.Fatalf("nil Stop: %v", err)
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	if _, err := Start(Options{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")}); err == nil {
		t.Fatalf("expected error for unwritable path")
	}
}
