package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// DefaultDelay is the cycle length used when Config.Delay is zero.
const DefaultDelay = 5 * time.Second

// Orchestrator runs the poll loop: fetch, compute, reconcile, sleep.
//
// One cycle always runs to completion before the next starts. The only
// suspension point is the sleep between cycles, which ends early when the
// context is cancelled.
type Orchestrator struct {
	collab  Collaborator
	applier *reconciler.Applier
	config  Config
	clock   Clock
	metrics *reconciler.ReconcilerMetrics

	mu                     sync.RWMutex
	state                  State
	markers                []marker.Marker
	cycle                  int
	lastReport             *CycleReport
	stateChangeSubscribers []chan<- StateChangedEvent
}

// New creates a new orchestrator.
func New(collab Collaborator, cfg Config) (*Orchestrator, error) {
	if collab == nil {
		return nil, errors.New("collaborator is required")
	}
	if len(cfg.Markers) == 0 {
		return nil, errors.New("at least one marker is required")
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}

	clock := cfg.Clock
	if clock == nil {
		clock = realClock{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = reconciler.GetReconcilerMetrics()
	}

	return &Orchestrator{
		collab:  collab,
		applier: reconciler.NewApplier(collab, cfg.Apply, metrics),
		config:  cfg,
		clock:   clock,
		metrics: metrics,
		state:   StateStopped,
		markers: append([]marker.Marker(nil), cfg.Markers...),
	}, nil
}

// Run executes cycles until ctx is cancelled, or once in single-shot mode.
// It returns nil on a clean stop.
//
// Cancelling ctx only interrupts the sleep between cycles. A cycle that is
// already running fetches and applies all of its updates before Run returns.
func (o *Orchestrator) Run(ctx context.Context) error {
	logging.Info("Orchestrator", "Starting poll loop with %d markers (delay %s, dry-run %t, once %t)",
		len(o.Markers()), o.config.Delay, o.applier.DryRun(), o.config.Once)
	defer o.setState(StateStopped)

	cycleCtx := context.WithoutCancel(ctx)
	for {
		report := o.RunCycle(cycleCtx)

		if ctx.Err() != nil {
			logging.Info("Orchestrator", "Stopping poll loop: %v", ctx.Err())
			return nil
		}
		if o.config.Once {
			logging.Info("Orchestrator", "Single-shot mode, stopping after one cycle")
			return nil
		}

		o.setState(StateSleeping)
		if report.SleepFor <= 0 {
			continue
		}
		logging.Debug("Orchestrator", "Sleeping for %s, waiting for changes", report.SleepFor)

		select {
		case <-ctx.Done():
			logging.Info("Orchestrator", "Stopping poll loop: %v", ctx.Err())
			return nil
		case <-o.clock.After(report.SleepFor):
		}
	}
}

// RunCycle executes a single cycle and returns its report. The OnCycle hook
// is called before it returns.
func (o *Orchestrator) RunCycle(ctx context.Context) CycleReport {
	start := o.clock.Now()
	markers := o.adoptMarkerUpdates()

	o.mu.Lock()
	o.cycle++
	report := CycleReport{Cycle: o.cycle, StartedAt: start, DryRun: o.applier.DryRun()}
	o.mu.Unlock()

	o.runCycle(ctx, markers, &report)

	report.Duration = o.clock.Now().Sub(start)
	if !o.config.Once {
		report.SleepFor = o.config.Delay - report.Duration
		if report.SleepFor < 0 {
			report.SleepFor = 0
		}
	}

	o.logReport(report)

	o.mu.Lock()
	o.lastReport = &report
	o.mu.Unlock()

	if o.config.OnCycle != nil {
		o.config.OnCycle(report)
	}
	return report
}

func (o *Orchestrator) runCycle(ctx context.Context, markers []marker.Marker, report *CycleReport) {
	o.setState(StateFetching)
	snap, err := o.collab.FetchHierarchy(ctx)
	switch {
	case errors.Is(err, hierarchy.ErrUnchanged):
		report.SkipReason = SkipUnchanged
		o.metrics.RecordCycleSkipped()
		return
	case err != nil:
		report.SkipReason = SkipFetch
		report.Err = &TransientFetchError{Err: err}
		o.metrics.RecordCycleSkipped()
		if ctx.Err() == nil {
			logging.Warn("Orchestrator", "%v", report.Err)
		}
		return
	}

	o.setState(StateComputing)
	forest, err := hierarchy.Build(snap)
	if err != nil {
		report.SkipReason = SkipMalformed
		report.Err = err
		o.metrics.RecordCycleAborted(err.Error())
		logging.Error("Orchestrator", err, "Aborting cycle %d", report.Cycle)
		o.invalidate("malformed hierarchy")
		return
	}

	matches := marker.Resolve(forest, markers)
	desired := reconciler.BuildDesired(matches)
	updates := reconciler.Diff(forest, desired)

	report.NodesVisited = forest.Len()
	report.MarkersMatched = marker.Matched(matches)
	report.Updates = updates
	o.metrics.RecordCycle(len(updates))

	o.setState(StateReconciling)
	result := o.applier.Apply(ctx, updates, snap.Labels)

	report.Applied = result.Applied
	report.Withheld = result.Withheld
	report.Failures = result.Failures
	report.MissingLabels = result.MissingLabels
	report.LabelsCreated = result.LabelsCreated
	report.LabelFailures = result.LabelFailures

	if len(result.Failures) > 0 || len(result.LabelFailures) > 0 {
		o.invalidate(fmt.Sprintf("%d failed updates", len(result.Failures)+len(result.LabelFailures)))
	}
}

// adoptMarkerUpdates takes the most recent reloaded marker set, if any.
func (o *Orchestrator) adoptMarkerUpdates() []marker.Marker {
	var latest []marker.Marker
	if o.config.MarkerUpdates != nil {
	drain:
		for {
			select {
			case ms, ok := <-o.config.MarkerUpdates:
				if !ok {
					break drain
				}
				latest = ms
			default:
				break drain
			}
		}
	}

	o.mu.Lock()
	if len(latest) > 0 {
		o.markers = append([]marker.Marker(nil), latest...)
	}
	markers := o.markers
	o.mu.Unlock()

	if len(latest) > 0 {
		logging.Info("Orchestrator", "Adopted %d reloaded markers", len(latest))
		o.invalidate("markers reloaded")
	}
	return markers
}

func (o *Orchestrator) invalidate(reason string) {
	inv, ok := o.collab.(Invalidator)
	if !ok {
		return
	}
	logging.Debug("Orchestrator", "Forcing full sync next cycle: %s", reason)
	inv.Invalidate()
}

func (o *Orchestrator) logReport(r CycleReport) {
	switch r.SkipReason {
	case SkipUnchanged:
		logging.Debug("Orchestrator", "Cycle %d: no changes since last sync", r.Cycle)
		return
	case SkipFetch, SkipMalformed:
		logging.Info("Orchestrator", "Cycle %d skipped (%s) after %s", r.Cycle, r.SkipReason, r.Duration.Round(time.Millisecond))
		return
	}

	if r.DryRun {
		logging.Info("Orchestrator", "Cycle %d: %d nodes, %d marked, %d updates withheld (dry-run) in %s",
			r.Cycle, r.NodesVisited, r.MarkersMatched, r.Withheld, r.Duration.Round(time.Millisecond))
		return
	}
	logging.Info("Orchestrator", "Cycle %d: %d nodes, %d marked, %d updates (%d applied, %d failed, %d labels created) in %s",
		r.Cycle, r.NodesVisited, r.MarkersMatched, len(r.Updates), r.Applied, r.Failed(), len(r.LabelsCreated),
		r.Duration.Round(time.Millisecond))
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	old := o.state
	if old == s {
		o.mu.Unlock()
		return
	}
	o.state = s
	event := StateChangedEvent{OldState: old, NewState: s, Cycle: o.cycle, Timestamp: time.Now()}
	subscribers := make([]chan<- StateChangedEvent, len(o.stateChangeSubscribers))
	copy(subscribers, o.stateChangeSubscribers)
	o.mu.Unlock()

	logging.Debug("Orchestrator", "State %s -> %s", old, s)

	for _, subscriber := range subscribers {
		select {
		case subscriber <- event:
		default:
			// Don't block if subscriber can't receive immediately
			logging.Debug("Orchestrator", "Subscriber blocked, skipping state event %s", s)
		}
	}
}

// SubscribeToStateChanges returns a channel for state change events.
func (o *Orchestrator) SubscribeToStateChanges() <-chan StateChangedEvent {
	eventChan := make(chan StateChangedEvent, 100)
	o.mu.Lock()
	o.stateChangeSubscribers = append(o.stateChangeSubscribers, eventChan)
	o.mu.Unlock()
	return eventChan
}

// State returns the current state of the loop.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Markers returns the markers currently in effect.
func (o *Orchestrator) Markers() []marker.Marker {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]marker.Marker(nil), o.markers...)
}

// LastReport returns the report of the most recent cycle.
func (o *Orchestrator) LastReport() (CycleReport, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.lastReport == nil {
		return CycleReport{}, false
	}
	return *o.lastReport, true
}
