package report

import (
	"encoding/json"
	"io"

	"ormsynth/internal/driver"
	"ormsynth/internal/observ"
)

// Output is the root of the JSON report.
type Output struct {
	Programs []*driver.Snapshot `json:"programs"`
	Summary  Summary            `json:"summary"`
	Timings  *observ.Report     `json:"timings,omitempty"` // summed over programs
}

// BuildOutput assembles the JSON document without serializing it.
func BuildOutput(snaps []*driver.Snapshot) Output {
	out := Output{Programs: make([]*driver.Snapshot, 0, len(snaps)), Summary: Summarize(snaps)}
	for _, snap := range snaps {
		if snap != nil {
			out.Programs = append(out.Programs, snap)
		}
	}
	if total, n := totalTimings(snaps); n > 0 {
		out.Timings = &total
	}
	return out
}

// JSON writes the indented JSON report.
func JSON(w io.Writer, snaps []*driver.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(snaps))
}

// Write renders snaps in format.
func Write(w io.Writer, format Format, snaps []*driver.Snapshot, opts Options) error {
	if format == FormatJSON {
		return JSON(w, snaps)
	}
	return Text(w, snaps, opts)
}
