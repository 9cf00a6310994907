package trace

import (
	"io"
	"os"
	"sync"
)

// StreamTracer formats and writes every admitted event immediately.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.Allows(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	// seq под мьютексом, чтобы порядок в файле совпадал с нумерацией
	ev.Seq = NextSeq()
	_, _ = t.w.Write(FormatEvent(ev, t.format)) // trace write errors never fail analysis
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	if f, ok := t.w.(*os.File); ok && !isStdStream(f) {
		return f.Sync()
	}
	return nil
}

// Close flushes and closes the writer. Standard streams stay open.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if isStdStream(t.w) {
		return nil
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

func isStdStream(w io.Writer) bool {
	return w == os.Stderr || w == os.Stdout
}
