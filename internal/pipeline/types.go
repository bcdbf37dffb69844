package pipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageClean removes stale artifacts.
	StageClean Stage = "clean"
	// StageDiscover walks the workspace for sources and headers.
	StageDiscover Stage = "discover"
	// StageDerive computes include directories.
	StageDerive Stage = "derive"
	// StageSynthesize builds and renders the descriptor.
	StageSynthesize Stage = "synthesize"
	// StageWrite persists the descriptor.
	StageWrite Stage = "write"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageClean, StageDiscover, StageDerive, StageSynthesize, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the stage is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the stage is running.
	StatusWorking Status = "working"
	// StatusDone indicates the stage finished.
	StatusDone Status = "done"
	// StatusSkipped indicates the stage was disabled by configuration.
	StatusSkipped Status = "skipped"
	// StatusError indicates the stage failed.
	StatusError Status = "error"
)

// Event reports progress for a stage. File is set for per-file detail
// events (a discovered file or a cleaned artifact).
type Event struct {
	Stage   Stage
	Status  Status
	File    string
	Count   int
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Outcome is the user-visible result class of a run.
type Outcome uint8

const (
	// OutcomeAborted means a fatal error stopped the run.
	OutcomeAborted Outcome = iota
	// OutcomeGenerated means the descriptor was written without warnings.
	OutcomeGenerated
	// OutcomeGeneratedWithWarnings means the descriptor was written but
	// diagnostics (for example no sources) were raised.
	OutcomeGeneratedWithWarnings
)

func (o Outcome) String() string {
	switch o {
	case OutcomeGenerated:
		return "generated"
	case OutcomeGeneratedWithWarnings:
		return "generated with warnings"
	default:
		return "aborted"
	}
}
