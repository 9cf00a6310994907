package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // failure events only
	LevelPhase               // driver + pass boundaries
	LevelDetail              // module-level events
	LevelDebug               // everything including node-level
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// deepest scope each level shows; zero hides every scope
var levelScope = [...]Scope{0, 0, ScopePass, ScopeModule, ScopeNode}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether spans and points of scope are shown at this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelScope) {
		return false
	}
	return scope != 0 && scope <= levelScope[l]
}

// Allows decides for a finished event: failures and heartbeats pass at any
// enabled level, the rest by scope.
func (l Level) Allows(ev *Event) bool {
	if l == LevelOff {
		return false
	}
	if ev.Failed || ev.Kind == KindHeartbeat {
		return true
	}
	return l.ShouldEmit(ev.Scope)
}
