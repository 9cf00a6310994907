// Package report renders analysis snapshots for people (text) and tools
// (JSON).
package report

import (
	"fmt"
	"strings"
)

// Format selects the renderer.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" (or "pretty") and "json".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "pretty":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be text or json)", s)
}

// Options configures rendering.
type Options struct {
	Color    bool
	Width    int  // максимальная ширина строки, 0 - не ограничено
	ShowInfo bool // include info diagnostics such as reveals
	Timings  bool
}
