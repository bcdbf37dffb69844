// Package pipeline runs the generator end to end: clean, discover, derive,
// synthesize, write. Stages are strictly sequential; cancellation is checked
// between stages and inside the directory walk.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"cmakegen/internal/config"
	"cmakegen/internal/descriptor"
	"cmakegen/internal/diag"
	"cmakegen/internal/discover"
	"cmakegen/internal/includes"
	"cmakegen/internal/observ"
	"cmakegen/internal/trace"
	"cmakegen/internal/workspace"
)

// DefaultMaxDiagnostics caps the run's diagnostics bag when the request
// leaves MaxDiagnostics at zero.
const DefaultMaxDiagnostics = 100

// Request configures one generation run.
type Request struct {
	Config         config.Config
	MaxDiagnostics int
	Progress       ProgressSink
}

// Result captures what a run produced. Fields are filled stage by stage, so
// a failed run still reports everything up to the failing stage.
type Result struct {
	Config      config.Config
	Clean       workspace.Report
	Sources     []string
	Headers     []string
	IncludeDirs []string
	// SkippedDirs are linked directories discovery did not enter; the
	// descriptor's exclusion filter covers them as well.
	SkippedDirs []string
	Descriptor  descriptor.Descriptor
	// Path is the written descriptor; empty unless the write stage succeeded.
	Path        string
	Bytes       int
	Diagnostics *diag.Bag
	Timings     observ.Report
}

// Outcome classifies the run for the user. A run without sources is degraded
// even when the diagnostics bag was too small to keep the warning.
func (r Result) Outcome() Outcome {
	if r.Path == "" {
		return OutcomeAborted
	}
	if r.Descriptor.NoSources {
		return OutcomeGeneratedWithWarnings
	}
	if r.Diagnostics != nil && r.Diagnostics.HasWarnings() {
		return OutcomeGeneratedWithWarnings
	}
	return OutcomeGenerated
}

// Run executes the full pipeline for req.Config.Root. The configuration is
// validated before anything on disk is touched. No sources is not an error:
// the descriptor is still written and a NoSources warning is recorded.
func Run(ctx context.Context, req *Request) (result Result, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if req == nil {
		return result, fmt.Errorf("missing generate request")
	}
	cfg := req.Config
	if err := cfg.Validate(); err != nil {
		return result, err
	}
	excl, err := discover.WithDefaults(cfg.Exclude...)
	if err != nil {
		return result, err
	}
	result.Config = cfg
	limit := req.MaxDiagnostics
	if limit <= 0 {
		limit = DefaultMaxDiagnostics
	}
	result.Diagnostics = diag.NewBag(limit)

	r := &runner{
		ctx:   ctx,
		sink:  req.Progress,
		timer: observ.NewTimer(),
	}
	defer func() { result.Timings = r.timer.Report() }()

	ctx, runSpan := trace.StartSpan(ctx, trace.ScopeRun, "generate")
	defer runSpan.End("")
	r.ctx = ctx

	emitQueued(r.sink, Stages)

	if cfg.Clean {
		err = r.stage(StageClean, func() (int, error) {
			rep, err := workspace.Clean(r.ctx, cfg.Root, workspace.Options{Extra: cfg.CleanExtra})
			result.Clean = rep
			return len(rep.Removed), err
		})
		if err != nil {
			return result, err
		}
	} else {
		emit(r.sink, Event{Stage: StageClean, Status: StatusSkipped})
	}

	reporter := diag.BagReporter{Bag: result.Diagnostics}
	err = r.stage(StageDiscover, func() (int, error) {
		scan, err := discoverAll(r.ctx, cfg, excl, reporter, r.sink)
		result.Sources, result.Headers, result.SkippedDirs = scan.Sources, scan.Headers, scan.Skipped
		return len(scan.Sources) + len(scan.Headers), err
	})
	if err != nil {
		return result, err
	}
	if len(result.Sources) == 0 {
		diag.ReportWarning(reporter, diag.NoSources, cfg.Root, descriptor.NoSourcesMarker)
	}

	err = r.stage(StageDerive, func() (int, error) {
		result.IncludeDirs = includes.Derive(result.Headers)
		return len(result.IncludeDirs), nil
	})
	if err != nil {
		return result, err
	}

	var text []byte
	err = r.stage(StageSynthesize, func() (int, error) {
		result.Descriptor = descriptor.Synthesize(descriptorInput(cfg, excl.WithPaths(result.SkippedDirs...), result.Sources, result.Headers, result.IncludeDirs))
		var err error
		text, err = descriptor.Text(result.Descriptor)
		if err != nil {
			err = diag.Fail(diag.FsWriteFailed, cfg.DescriptorPath(), "cannot render descriptor", err)
		}
		return len(text), err
	})
	if err != nil {
		return result, err
	}

	err = r.stage(StageWrite, func() (int, error) {
		path, err := descriptor.Write(cfg.Root, text)
		if err != nil {
			return 0, err
		}
		result.Path = path
		result.Bytes = len(text)
		return len(text), nil
	})
	if err != nil {
		return result, err
	}

	result.Diagnostics.Dedup()
	result.Diagnostics.Sort()
	return result, nil
}

type runner struct {
	ctx   context.Context
	sink  ProgressSink
	timer *observ.Timer
}

// stage wraps fn with cancellation, a trace span, a timer phase and
// progress events. fn returns an item count shown in progress and timings.
func (r *runner) stage(st Stage, fn func() (int, error)) error {
	if err := r.ctx.Err(); err != nil {
		emit(r.sink, Event{Stage: st, Status: StatusError, Err: err})
		return err
	}
	_, span := trace.StartSpan(r.ctx, trace.ScopeStage, string(st))
	idx := r.timer.Begin(string(st))
	emit(r.sink, Event{Stage: st, Status: StatusWorking})

	start := time.Now()
	n, err := fn()
	elapsed := time.Since(start)

	if err != nil {
		r.timer.End(idx, "failed")
		span.WithExtra("error", err.Error()).End("failed")
		emit(r.sink, Event{Stage: st, Status: StatusError, Err: err, Elapsed: elapsed})
		return err
	}
	r.timer.End(idx, fmt.Sprintf("%d", n))
	span.End(fmt.Sprintf("%d", n))
	emit(r.sink, Event{Stage: st, Status: StatusDone, Count: n, Elapsed: elapsed})
	return nil
}

func descriptorInput(cfg config.Config, excl *discover.Exclusions, sources, headers, dirs []string) descriptor.Input {
	return descriptor.Input{
		ProjectName:    cfg.ProjectName,
		Standard:       cfg.Standard,
		Root:           cfg.Root,
		OutputRoot:     cfg.OutputRoot,
		Sources:        sources,
		Headers:        headers,
		IncludeDirs:    dirs,
		SourceGlobs:    discover.SourceExtensions.Globs(),
		HeaderGlobs:    discover.HeaderExtensions.Globs(),
		ExcludeRegex:   excl.Regex(),
		FollowSymlinks: cfg.FollowSymlinks,
	}
}
