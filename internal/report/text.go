package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ormsynth/internal/diag"
	"ormsynth/internal/driver"
	"ormsynth/internal/observ"
)

type palette struct {
	header  *color.Color
	section *color.Color
	class   *color.Color
	typ     *color.Color
	err     *color.Color
	warn    *color.Color
	info    *color.Color
	dim     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		header:  color.New(color.Bold),
		section: color.New(color.FgCyan),
		class:   color.New(color.FgGreen),
		typ:     color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgBlue),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.header, p.section, p.class, p.typ, p.err, p.warn, p.info, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev string) *color.Color {
	switch sev {
	case diag.SevError.String():
		return p.err
	case diag.SevWarning.String():
		return p.warn
	default:
		return p.info
	}
}

// Text writes one block per program followed by a summary line.
func Text(w io.Writer, snaps []*driver.Snapshot, opts Options) error {
	tw := &textWriter{w: w, opts: opts, p: newPalette(opts.Color)}
	for i, snap := range snaps {
		if snap == nil {
			continue
		}
		if i > 0 {
			tw.line("")
		}
		tw.program(snap)
	}
	if opts.Timings {
		if total, n := totalTimings(snaps); n > 1 {
			tw.line("")
			tw.line("%s", tw.p.section.Sprintf("timings (%d programs)", n))
			tw.timings(total, "  ")
		}
	}
	tw.line("%s", Summarize(snaps).String())
	return tw.err
}

type textWriter struct {
	w    io.Writer
	opts Options
	p    palette
	err  error
}

func (tw *textWriter) line(format string, args ...any) {
	if tw.err != nil {
		return
	}
	text := fmt.Sprintf(format, args...)
	// runewidth would count escape sequences as text
	if tw.opts.Width > 0 && !tw.opts.Color {
		text = truncate(text, tw.opts.Width)
	}
	_, tw.err = fmt.Fprintln(tw.w, text)
}

func (tw *textWriter) program(snap *driver.Snapshot) {
	p := tw.p
	status := fmt.Sprintf("%d iterations", snap.Iterations)
	switch {
	case snap.Cached:
		status = "cached"
	case snap.Iterations > 0 && !snap.Converged:
		status += ", did not converge"
	}
	tw.line("%s %s", p.header.Sprint(snap.Program), p.dim.Sprintf("(%s)", status))

	if len(snap.Classes) > 0 {
		tw.line("  %s", p.section.Sprint("generated classes"))
		for _, c := range snap.Classes {
			tw.line("    %s(%s)  %s", p.class.Sprint(c.Fullname), strings.Join(c.Bases, ", "), p.dim.Sprint(c.Pos))
			if len(c.Methods) > 0 {
				tw.line("      methods: %s", strings.Join(c.Methods, ", "))
			}
		}
	}

	if len(snap.Registry) > 0 {
		tw.line("  %s", p.section.Sprint("registry"))
		width := 0
		for _, r := range snap.Registry {
			width = max(width, runewidth.StringWidth(r.Key))
		}
		for _, r := range snap.Registry {
			tw.line("    %s -> %s  %s", pad(r.Key, width), p.class.Sprint(r.Fullname), p.dim.Sprintf("[%s]", r.Holder))
		}
	}

	if len(snap.Inferred)+len(snap.Reveals) > 0 {
		tw.line("  %s", p.section.Sprint("types"))
		width := 0
		for _, t := range snap.Inferred {
			width = max(width, runewidth.StringWidth(t.Module+"."+t.Name))
		}
		for _, t := range snap.Reveals {
			width = max(width, runewidth.StringWidth("reveal "+t.Name))
		}
		for _, t := range snap.Inferred {
			tw.line("    %s  %s", pad(t.Module+"."+t.Name, width), p.typ.Sprint(t.Type))
		}
		for _, t := range snap.Reveals {
			tw.line("    %s  %s", pad("reveal "+t.Name, width), p.typ.Sprint(t.Type))
		}
	}

	for _, d := range snap.Diagnostics {
		if d.Severity == diag.SevInfo.String() && !tw.showInfo(d) {
			continue
		}
		tw.line("  %s: %s %s: %s", d.Pos, p.severity(d.Severity).Sprint(d.Severity), d.Code, d.Message)
		for _, n := range d.Notes {
			if n.Pos != "" {
				tw.line("    note: %s: %s", n.Pos, n.Msg)
			} else {
				tw.line("    note: %s", n.Msg)
			}
		}
	}
	if snap.Dropped > 0 {
		tw.line("  %s", p.dim.Sprintf("... %d more diagnostics past the limit", snap.Dropped))
	}

	if tw.opts.Timings && snap.Timings != nil {
		tw.line("  %s", p.section.Sprint("timings"))
		tw.timings(*snap.Timings, "    ")
	}
}

func (tw *textWriter) timings(rep observ.Report, indent string) {
	for _, ph := range rep.Phases {
		note := ""
		if ph.Note != "" {
			note = "  // " + ph.Note
		}
		tw.line("%s%-10s %7.2f ms%s", indent, ph.Name, ph.DurationMS, note)
	}
	tw.line("%s%-10s %7.2f ms", indent, "total", rep.TotalMS)
}

// totalTimings sums the timings of every program that has them.
func totalTimings(snaps []*driver.Snapshot) (observ.Report, int) {
	var reports []*observ.Report
	for _, snap := range snaps {
		if snap != nil && snap.Timings != nil {
			reports = append(reports, snap.Timings)
		}
	}
	return observ.Sum(reports...), len(reports)
}

// showInfo hides the timings diagnostic; timings get their own table.
func (tw *textWriter) showInfo(d driver.DiagnosticInfo) bool {
	if d.Code == diag.ObsTimings.ID() {
		return false
	}
	return tw.opts.ShowInfo
}

func pad(s string, width int) string {
	if gap := width - runewidth.StringWidth(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
