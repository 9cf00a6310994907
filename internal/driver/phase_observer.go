package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that an analysis phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary of one program.
type PhaseEvent struct {
	Program string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during Analyze. Programs run
// concurrently under AnalyzeFiles, so an observer must be safe for that.
type PhaseObserver func(PhaseEvent)
