// Package pipeline describes per-program progress of an analysis run.
package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad renders stubs and the program fixture into modules.
	StageLoad Stage = "load"
	// StageSemanal is the semantic-analysis fixpoint.
	StageSemanal Stage = "semanal"
	// StageCheck infers assignment and reveal types.
	StageCheck Stage = "check"
	// StageCache covers cache lookups and stores.
	StageCache Stage = "cache"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the program is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the program is in the stage.
	StatusWorking Status = "working"
	// StatusDone indicates the program finished.
	StatusDone Status = "done"
	// StatusCached indicates the report came from the cache.
	StatusCached Status = "cached"
	// StatusError indicates the program has errors.
	StatusError Status = "error"
)

// Event reports progress for a program (or for the whole run when Program is empty).
type Event struct {
	Program string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
	Detail  string // short result line on finished events, e.g. "2 classes"
}

// Finished reports whether the event ends the program's run.
func (e Event) Finished() bool {
	return e.Status == StatusDone || e.Status == StatusCached || e.Status == StatusError
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}
