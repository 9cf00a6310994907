package program

import (
	"strings"

	"fortio.org/safecast"

	"ormsynth/internal/source"
)

// writer renders a module line by line and remembers where each expression
// lands. Parsing waits for the file ID, so positions are collected as jobs
// and run once the rendered text is in the FileSet.
type writer struct {
	lines []string
	cur   strings.Builder
	jobs  []func(file source.FileID)
}

// at is the position the next write starts at, minus the file.
func (w *writer) at() source.Span {
	line, err := safecast.Conv[uint32](len(w.lines) + 1)
	if err != nil {
		panic(err)
	}
	col, err := safecast.Conv[uint32](w.cur.Len() + 1)
	if err != nil {
		panic(err)
	}
	return source.Span{Line: line, Col: col}
}

func (w *writer) write(parts ...string) {
	for _, p := range parts {
		w.cur.WriteString(p)
	}
}

// expr writes src and schedules parse to run on it with its position.
func (w *writer) expr(src string, parse func(src string, at source.Span)) {
	at := w.at()
	w.cur.WriteString(src)
	w.jobs = append(w.jobs, func(file source.FileID) {
		at.File = file
		parse(src, at)
	})
}

func (w *writer) endLine() {
	w.lines = append(w.lines, w.cur.String())
	w.cur.Reset()
}

func (w *writer) text() []byte {
	return []byte(strings.Join(w.lines, "\n") + "\n")
}

// spanFix patches a statement span once the file ID is known.
func (w *writer) spanFix(sp *source.Span) {
	w.jobs = append(w.jobs, func(file source.FileID) { sp.File = file })
}
