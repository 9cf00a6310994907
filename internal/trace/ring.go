package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last N admitted events in memory.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int // total events written; next%len(events) is the write slot
	failed int
	level  Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Allows(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.next%len(t.events)] = stored
	t.next++
	if ev.Failed {
		t.failed++
	}
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := min(t.next, len(t.events))
	out := make([]Event, 0, n)
	for i := t.next - n; i < t.next; i++ {
		out = append(out, t.events[i%len(t.events)])
	}
	return out
}

// Dropped reports how many events were overwritten.
func (t *RingTracer) Dropped() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return max(0, t.next-len(t.events))
}

// Failures reports how many failure events were recorded, including
// overwritten ones.
func (t *RingTracer) Failures() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.failed
}

// Dump writes the stored events in the given format.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
