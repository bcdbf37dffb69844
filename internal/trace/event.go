package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1 // span start
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd // span end
	// KindPoint represents an instant event.
	KindPoint // instant event
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeRun covers a whole CLI invocation.
	ScopeRun Scope = iota + 1
	// ScopeStage covers one pipeline stage (clean, discover, derive, ...).
	ScopeStage
	// ScopeFile covers single artifacts and discovered files.
	ScopeFile
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeStage:
		return "stage"
	case ScopeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Action is what happened to one workspace path. File events carry it as
// their name.
type Action string

const (
	ActionFound       Action = "found"
	ActionRemoved     Action = "removed"
	ActionWouldRemove Action = "would-remove"
	// ActionSkippedDir marks a linked directory discovery did not enter.
	ActionSkippedDir Action = "skip-dir"
)

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // stage name, or an Action for file events
	Path     string            // workspace-relative path (file events)
	Detail   string            // optional detail message
	Elapsed  time.Duration     // set on span end
	Extra    map[string]string // extensible key-value pairs
}
