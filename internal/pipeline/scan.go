package pipeline

import (
	"context"
	"fmt"

	"cmakegen/internal/config"
	"cmakegen/internal/diag"
	"cmakegen/internal/discover"
	"cmakegen/internal/includes"
	"cmakegen/internal/trace"
)

// ScanReport is the read-only view of a workspace: what generation would
// compile and which include directories it would declare.
type ScanReport struct {
	Root           string   `json:"root" msgpack:"root"`
	ProjectName    string   `json:"project" msgpack:"project"`
	Standard       string   `json:"std" msgpack:"std"`
	Exclude        []string `json:"exclude" msgpack:"exclude"`
	FollowSymlinks bool     `json:"follow_symlinks" msgpack:"follow_symlinks"`
	Sources        []string `json:"sources" msgpack:"sources"`
	Headers        []string `json:"headers" msgpack:"headers"`
	IncludeDirs    []string `json:"include_dirs" msgpack:"include_dirs"`
	SkippedDirs    []string `json:"skipped_dirs,omitempty" msgpack:"skipped_dirs,omitempty"`
}

type discovered struct {
	Sources []string
	Headers []string
	// Skipped comes from the source walk; both walks visit the same
	// directories.
	Skipped []string
}

// Scan runs discovery and include derivation without touching the
// workspace. Diagnostics go to bag when it is non-nil.
func Scan(ctx context.Context, cfg config.Config, bag *diag.Bag) (ScanReport, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.Validate(); err != nil {
		return ScanReport{}, err
	}
	excl, err := discover.WithDefaults(cfg.Exclude...)
	if err != nil {
		return ScanReport{}, err
	}

	ctx, span := trace.StartSpan(ctx, trace.ScopeRun, "scan")
	defer span.End("")

	var reporter diag.Reporter = diag.NopReporter{}
	if bag != nil {
		reporter = diag.BagReporter{Bag: bag}
	}
	found, err := discoverAll(ctx, cfg, excl, reporter, nil)
	if err != nil {
		return ScanReport{}, err
	}
	if len(found.Sources) == 0 {
		diag.ReportWarning(reporter, diag.NoSources, cfg.Root, "no source files found")
	}
	if bag != nil {
		bag.Dedup()
		bag.Sort()
	}
	return ScanReport{
		Root:           cfg.Root,
		ProjectName:    cfg.ProjectName,
		Standard:       string(cfg.Standard),
		Exclude:        excl.Patterns(),
		FollowSymlinks: cfg.FollowSymlinks,
		Sources:        found.Sources,
		Headers:        found.Headers,
		IncludeDirs:    includes.Derive(found.Headers),
		SkippedDirs:    found.Skipped,
	}, nil
}

// discoverAll walks the tree once per extension class. Per-file progress
// events are forwarded to sink when the walk succeeds.
func discoverAll(ctx context.Context, cfg config.Config, excl *discover.Exclusions, reporter diag.Reporter, sink ProgressSink) (discovered, error) {
	opts := discover.Options{FollowSymlinks: cfg.FollowSymlinks, Reporter: reporter}
	src, err := discover.DiscoverSources(ctx, cfg.Root, excl, opts)
	if err != nil {
		return discovered{}, fmt.Errorf("discover sources: %w", err)
	}
	hdr, err := discover.DiscoverHeaders(ctx, cfg.Root, excl, opts)
	if err != nil {
		return discovered{}, fmt.Errorf("discover headers: %w", err)
	}
	for _, f := range src.Files {
		emit(sink, Event{Stage: StageDiscover, Status: StatusWorking, File: f})
	}
	for _, f := range hdr.Files {
		emit(sink, Event{Stage: StageDiscover, Status: StatusWorking, File: f})
	}
	return discovered{Sources: src.Files, Headers: hdr.Files, Skipped: src.Skipped}, nil
}
