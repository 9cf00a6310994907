package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1 // span start
	KindSpanEnd                   // span end, carries Elapsed
	KindPoint                     // instant event
	KindHeartbeat                 // periodic liveness signal
)

var kindNames = [...]string{"unknown", "begin", "end", "point", "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[0]
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeDriver is one program run by the CLI.
	ScopeDriver Scope = iota + 1
	// ScopePass is one semantic-analysis iteration or the checker phase.
	ScopePass
	// ScopeModule is per-module processing inside a pass.
	ScopeModule
	// ScopeNode is a single call site or declaration.
	ScopeNode
)

var scopeNames = [...]string{"unknown", "driver", "pass", "module", "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return scopeNames[0]
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time
	Seq      uint64 // global, monotonic
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // e.g. "semanal#2", "app.models", "defer"
	Detail   string
	Elapsed  time.Duration // span end only
	Failed   bool
	Extra    map[string]string
}
