package trace

import (
	"strconv"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval. Heartbeats that keep
// coming while no pass ends point at a fixpoint that is not converging.
type Heartbeat struct {
	stop chan struct{}
	done sync.WaitGroup
	once sync.Once
}

// StartHeartbeat starts the ticker goroutine. It returns nil when tracing is
// disabled or interval is not positive; Stop accepts nil.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{})}
	h.done.Add(1)
	go func() {
		defer h.done.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		started := time.Now()
		for beat := 1; ; beat++ {
			select {
			case now := <-ticker.C:
				tracer.Emit(&Event{
					Time:    now,
					Kind:    KindHeartbeat,
					Scope:   ScopeDriver,
					Name:    "heartbeat#" + strconv.Itoa(beat),
					Elapsed: now.Sub(started),
				})
			case <-h.stop:
				return
			}
		}
	}()
	return h
}

// Stop ends the goroutine and waits for it.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.done.Wait()
}
