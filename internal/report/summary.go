package report

import (
	"fmt"

	"ormsynth/internal/driver"
)

// Summary counts what a run produced.
type Summary struct {
	Programs int `json:"programs"`
	Cached   int `json:"cached"`
	Classes  int `json:"classes"`
	Errors   int `json:"errors"`
}

// Summarize totals snaps, skipping nil entries left by a cancelled run.
func Summarize(snaps []*driver.Snapshot) Summary {
	var s Summary
	for _, snap := range snaps {
		if snap == nil {
			continue
		}
		s.Programs++
		if snap.Cached {
			s.Cached++
		}
		s.Classes += len(snap.Classes)
		s.Errors += snap.Errors()
	}
	return s
}

func (s Summary) String() string {
	out := fmt.Sprintf("%d %s, %d generated %s, %d %s",
		s.Programs, plural(s.Programs, "program", "programs"),
		s.Classes, plural(s.Classes, "class", "classes"),
		s.Errors, plural(s.Errors, "error", "errors"))
	if s.Cached > 0 {
		out += fmt.Sprintf(" (%d cached)", s.Cached)
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
