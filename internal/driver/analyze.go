package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"ormsynth/internal/cache"
	"ormsynth/internal/config"
	"ormsynth/internal/diag"
	"ormsynth/internal/managers"
	"ormsynth/internal/nodes"
	"ormsynth/internal/observ"
	"ormsynth/internal/pipeline"
	"ormsynth/internal/program"
	"ormsynth/internal/request"
	"ormsynth/internal/semanal"
	"ormsynth/internal/source"
	"ormsynth/internal/trace"
	"ormsynth/internal/version"
)

// Analyze reads the program fixture at path and analyzes it on top of the
// embedded ORM stubs. A program that cannot be read yields a snapshot with an
// IOLoadProgram diagnostic; the error is reserved for cancellation.
func Analyze(ctx context.Context, path string, opts Options) (*Snapshot, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		snap := &Snapshot{Program: path}
		snap.Diagnostics = append(snap.Diagnostics, DiagnosticInfo{
			Severity: diag.SevError.String(),
			Code:     diag.IOLoadProgram.ID(),
			Message:  "failed to load program: " + err.Error(),
			Pos:      path,
		})
		pipeline.Emit(opts.Progress, pipeline.Event{Program: path, Stage: pipeline.StageLoad, Status: pipeline.StatusError, Err: err})
		return snap, nil
	}
	return AnalyzeSource(ctx, path, data, opts)
}

// AnalyzeSource analyzes fixture text registered under name.
func AnalyzeSource(ctx context.Context, name string, data []byte, opts Options) (snap *Snapshot, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeDriver, "analyze", trace.CurrentSpan(ctx)).
		WithExtra("program", name)
	defer func() {
		switch {
		case err != nil:
			span.Fail(err.Error())
		case snap.HasErrors():
			span.Fail(fmt.Sprintf("%d errors", snap.Errors()))
		default:
			span.End("")
		}
	}()
	ctx = trace.WithSpan(ctx, span)

	r := &run{name: name, opts: opts, tracer: trace.FromContext(ctx), span: span.ID(), started: time.Now()}
	if opts.EnableTimings {
		r.timer = observ.NewTimer()
	}

	key, keyed := cacheKey(opts.Config, name, data)
	if hit, ok := r.cached(key, keyed); ok {
		r.finish(hit)
		return hit, nil
	}

	snap = r.analyze(ctx, data)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if keyed && opts.Cache != nil {
		idx := r.begin(pipeline.StageCache)
		if err := opts.Cache.Put(key, snap); err != nil {
			trace.Fail(r.tracer, trace.ScopeDriver, "cache_put_failed", err.Error(), r.span)
		}
		r.end(idx, "store")
	}
	r.finish(snap)
	return snap, nil
}

// run carries the per-program state of one Analyze call.
type run struct {
	name    string
	opts    Options
	timer   *observ.Timer
	tracer  trace.Tracer
	span    uint64
	started time.Time
	phases  []phase
}

type phase struct {
	stage pipeline.Stage
	start time.Time
}

func (r *run) begin(stage pipeline.Stage) int {
	pipeline.Emit(r.opts.Progress, pipeline.Event{Program: r.name, Stage: stage, Status: pipeline.StatusWorking})
	if r.opts.Observer != nil {
		r.opts.Observer(PhaseEvent{Program: r.name, Name: string(stage), Status: PhaseStart})
	}
	r.timer.Begin(string(stage))
	r.phases = append(r.phases, phase{stage: stage, start: time.Now()})
	return len(r.phases) - 1
}

func (r *run) end(idx int, note string) {
	r.timer.End(idx, note)
	if r.opts.Observer == nil || idx < 0 || idx >= len(r.phases) {
		return
	}
	p := r.phases[idx]
	r.opts.Observer(PhaseEvent{Program: r.name, Name: string(p.stage), Status: PhaseEnd, Elapsed: time.Since(p.start)})
}

func (r *run) cached(key cache.Digest, keyed bool) (*Snapshot, bool) {
	if !keyed || r.opts.Cache == nil {
		return nil, false
	}
	idx := r.begin(pipeline.StageCache)
	var snap Snapshot
	ok, err := r.opts.Cache.Get(key, &snap)
	if err != nil {
		trace.Fail(r.tracer, trace.ScopeDriver, "cache_get_failed", err.Error(), r.span)
	}
	if !ok {
		r.end(idx, "miss")
		return nil, false
	}
	r.end(idx, "hit")
	snap.Program = r.name
	snap.Cached = true
	return &snap, true
}

func (r *run) analyze(ctx context.Context, data []byte) *Snapshot {
	fs := source.NewFileSet()
	bag := diag.NewBag(r.opts.maxDiagnostics())
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: bag})

	idx := r.begin(pipeline.StageLoad)
	mods := r.load(fs, data, reporter)
	r.end(idx, fmt.Sprintf("%d modules", len(mods)))
	if bag.HasErrors() {
		trace.Point(r.tracer, trace.ScopeDriver, "skip_analysis", "program has load errors", r.span)
		return buildSnapshot(r.name, fs, bag, nil)
	}

	cfg := r.opts.Config
	names := cfg.Names()
	apps := request.NewRegistry(cfg.Django)
	synth := managers.New(names)
	synth.SetModels(apps)
	an := semanal.New(mods, semanal.Options{
		MaxIterations: cfg.Analysis.MaxIterations,
		Reporter:      reporter,
		Files:         fs,
		Plugins: []semanal.Plugin{
			synth,
			request.New(names.HttpRequest, apps, apps),
		},
	})

	idx = r.begin(pipeline.StageSemanal)
	res := an.Semanal(ctx)
	r.end(idx, fmt.Sprintf("%d iterations", res.Iterations))

	idx = r.begin(pipeline.StageCheck)
	res = an.Check(ctx)
	r.end(idx, fmt.Sprintf("%d types", len(res.Inferred)+len(res.Reveals)))

	return buildSnapshot(r.name, fs, bag, an)
}

// load renders the stubs first so user modules can import from them.
func (r *run) load(fs *source.FileSet, data []byte, reporter diag.Reporter) []*nodes.Module {
	stubs, err := program.Stubs(fs, reporter)
	if err != nil {
		diag.Emit(reporter, diag.NewError(diag.IOLoadProgram, source.Span{}, err.Error()))
		return nil
	}
	mods, err := program.Parse(fs, r.name, data, 0, reporter)
	if err != nil {
		diag.Emit(reporter, diag.NewError(diag.IOLoadProgram, source.Span{}, err.Error()))
		return stubs
	}
	return append(stubs, mods...)
}

func (r *run) finish(snap *Snapshot) {
	status := pipeline.StatusDone
	switch {
	case snap.HasErrors():
		status = pipeline.StatusError
	case snap.Cached:
		status = pipeline.StatusCached
	}
	pipeline.Emit(r.opts.Progress, pipeline.Event{
		Program: r.name,
		Status:  status,
		Elapsed: time.Since(r.started),
		Detail:  resultDetail(snap),
	})
	if r.timer != nil {
		report := r.timer.Report()
		appendTimingDiagnostic(snap, timingPayload{
			Path:    r.name,
			Cached:  snap.Cached,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		})
	}
}

// resultDetail summarizes a snapshot for progress displays.
func resultDetail(snap *Snapshot) string {
	if n := snap.Errors(); n > 0 {
		return plural(n, "error")
	}
	detail := plural(len(snap.Classes), "class")
	if !snap.Cached {
		detail += ", " + plural(snap.Iterations, "iteration")
	}
	return detail
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "s") {
		return fmt.Sprintf("%d %ses", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// cacheKey covers everything a snapshot depends on: the tool version, the
// configuration, the stubs, the program name (it appears in positions) and
// its text.
func cacheKey(cfg config.Config, name string, data []byte) (cache.Digest, bool) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return cache.Digest{}, false
	}
	return cache.Sum(
		[]byte(version.Version),
		buf.Bytes(),
		program.StubsSource(),
		[]byte(name),
		data,
	), true
}
