package orchestrator

import (
	"context"
	"time"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
)

// Collaborator is the remote task service the loop reads from and writes to.
type Collaborator interface {
	// FetchHierarchy returns the full current state, or hierarchy.ErrUnchanged
	// when nothing changed since the previous fetch.
	FetchHierarchy(ctx context.Context) (hierarchy.Snapshot, error)

	// ApplyLabelUpdate replaces the full label list of one task.
	ApplyLabelUpdate(ctx context.Context, taskID string, labels []string) error

	// CreateLabel creates a personal label.
	CreateLabel(ctx context.Context, name string) error
}

// Invalidator is implemented by collaborators that cache a sync position.
// Invalidate makes the next fetch return the full state.
type Invalidator interface {
	Invalidate()
}

// Clock measures cycles and paces the sleep between them.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// State is the position of the poll loop.
type State int

const (
	StateFetching State = iota
	StateComputing
	StateReconciling
	StateSleeping
	StateStopped
)

// String makes State satisfy the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateFetching:
		return "Fetching"
	case StateComputing:
		return "Computing"
	case StateReconciling:
		return "Reconciling"
	case StateSleeping:
		return "Sleeping"
	case StateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// StateChangedEvent is published on every state transition.
type StateChangedEvent struct {
	OldState  State
	NewState  State
	Cycle     int
	Timestamp time.Time
}

// SkipReason explains why a cycle made no changes.
type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipUnchanged SkipReason = "unchanged"
	SkipFetch     SkipReason = "fetch-failed"
	SkipMalformed SkipReason = "malformed-hierarchy"
)

// Config holds the configuration for the orchestrator.
type Config struct {
	// Markers are the markers in effect until a reload replaces them.
	Markers []marker.Marker

	// Delay is the target length of one cycle including its sleep.
	// Defaults to 5 seconds if not specified.
	Delay time.Duration

	// Once stops the loop after the first cycle.
	Once bool

	// Apply configures concurrency, timeout and dry-run of label updates.
	Apply reconciler.ApplierConfig

	// MarkerUpdates delivers reloaded marker sets. Optional.
	MarkerUpdates <-chan []marker.Marker

	// OnCycle is called with every cycle report. Optional.
	OnCycle func(CycleReport)

	// Clock defaults to the system clock.
	Clock Clock

	// Metrics defaults to the global reconciler metrics.
	Metrics *reconciler.ReconcilerMetrics
}

// CycleReport summarizes one poll cycle.
type CycleReport struct {
	Cycle     int           `json:"cycle" yaml:"cycle"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	SleepFor  time.Duration `json:"sleepFor" yaml:"sleepFor"`
	DryRun    bool          `json:"dryRun" yaml:"dryRun"`

	NodesVisited   int `json:"nodesVisited" yaml:"nodesVisited"`
	MarkersMatched int `json:"markersMatched" yaml:"markersMatched"`

	Updates       []reconciler.LabelUpdate       `json:"updates,omitempty" yaml:"updates,omitempty"`
	Applied       int                            `json:"applied" yaml:"applied"`
	Withheld      int                            `json:"withheld" yaml:"withheld"`
	Failures      []*reconciler.UpdateApplyError `json:"-" yaml:"-"`
	MissingLabels []string                       `json:"missingLabels,omitempty" yaml:"missingLabels,omitempty"`
	LabelsCreated []string                       `json:"labelsCreated,omitempty" yaml:"labelsCreated,omitempty"`
	LabelFailures []error                        `json:"-" yaml:"-"`

	SkipReason SkipReason `json:"skipReason,omitempty" yaml:"skipReason,omitempty"`
	Err        error      `json:"-" yaml:"-"`
}

// Skipped reports whether the cycle stopped before computing updates.
func (r CycleReport) Skipped() bool {
	return r.SkipReason != SkipNone
}

// Failed counts the updates the collaborator rejected.
func (r CycleReport) Failed() int {
	return len(r.Failures)
}
