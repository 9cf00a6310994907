package driver

import (
	"runtime"

	"ormsynth/internal/cache"
	"ormsynth/internal/config"
	"ormsynth/internal/pipeline"
)

// DefaultMaxDiagnostics caps diagnostics kept per program.
const DefaultMaxDiagnostics = 100

// Options configures an analysis run.
type Options struct {
	Config         config.Config
	Jobs           int // programs analyzed at once; 0 means GOMAXPROCS
	MaxDiagnostics int
	EnableTimings  bool
	Cache          *cache.Cache // nil disables caching
	Progress       pipeline.ProgressSink
	Observer       PhaseObserver
}

// DefaultOptions returns options over the default configuration.
func DefaultOptions() Options {
	return Options{Config: config.Default(), MaxDiagnostics: DefaultMaxDiagnostics}
}

func (o Options) jobs(programs int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(1, min(jobs, programs))
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return DefaultMaxDiagnostics
	}
	return o.MaxDiagnostics
}
