package orchestrator_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
	"github.com/ShayHill/todoist-bot/internal/testing/fixtures"
	"github.com/ShayHill/todoist-bot/internal/testing/mock"
)

var nextAction = marker.Marker{Scheme: marker.SchemeSerial, Label: "next_action", Suffix: "-n"}

func workPlan() hierarchy.Snapshot {
	return fixtures.NewSnapshot().
		Project("work", "Work").
		Section("plan", "work", "Plan -n").
		Task("draft", "work", "Draft", fixtures.InSection("plan")).
		Task("review", "work", "Review", fixtures.InSection("plan")).
		PersonalLabels("next_action").
		Snapshot()
}

func newOrchestrator(t *testing.T, collab orchestrator.Collaborator, mutate func(*orchestrator.Config)) *orchestrator.Orchestrator {
	t.Helper()
	cfg := orchestrator.Config{
		Markers: []marker.Marker{nextAction},
		Delay:   time.Millisecond,
		Metrics: reconciler.NewReconcilerMetrics(),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	o, err := orchestrator.New(collab, cfg)
	require.NoError(t, err)
	return o
}

func TestNew_Validation(t *testing.T) {
	_, err := orchestrator.New(nil, orchestrator.Config{Markers: []marker.Marker{nextAction}})
	assert.Error(t, err)

	_, err = orchestrator.New(mock.NewCollaborator(hierarchy.Snapshot{}), orchestrator.Config{})
	assert.Error(t, err)
}

func TestRunCycle_WorkPlanScenario(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	o := newOrchestrator(t, collab, nil)
	ctx := context.Background()

	report := o.RunCycle(ctx)
	assert.False(t, report.Skipped())
	assert.Equal(t, 4, report.NodesVisited)
	assert.Equal(t, 1, report.MarkersMatched)
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, []string{"next_action"}, collab.Labels("draft"))
	assert.Empty(t, collab.Labels("review"))

	// The bot's own write is seen as a change; the recomputation is a no-op.
	report = o.RunCycle(ctx)
	assert.False(t, report.Skipped())
	assert.Empty(t, report.Updates)

	report = o.RunCycle(ctx)
	assert.Equal(t, orchestrator.SkipUnchanged, report.SkipReason)

	collab.CompleteTask("draft")

	report = o.RunCycle(ctx)
	assert.Len(t, report.Updates, 2)
	assert.Equal(t, 2, report.Applied)
	assert.Empty(t, collab.Labels("draft"))
	assert.Equal(t, []string{"next_action"}, collab.Labels("review"))
}

func TestRunCycle_DryRunWithholds(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) { c.Apply.DryRun = true })

	report := o.RunCycle(context.Background())

	assert.True(t, report.DryRun)
	assert.Len(t, report.Updates, 1)
	assert.Equal(t, 1, report.Withheld)
	assert.Zero(t, report.Applied)
	assert.Zero(t, collab.Updates())
}

func TestRunCycle_TransientFetchError(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	boom := errors.New("connection reset")
	collab.FailFetch(boom)
	o := newOrchestrator(t, collab, nil)

	report := o.RunCycle(context.Background())

	assert.Equal(t, orchestrator.SkipFetch, report.SkipReason)
	var tfe *orchestrator.TransientFetchError
	require.ErrorAs(t, report.Err, &tfe)
	assert.ErrorIs(t, report.Err, boom)

	report = o.RunCycle(context.Background())
	assert.False(t, report.Skipped(), "the loop recovers on the next cycle")
	assert.Equal(t, 1, report.Applied)
}

func TestRunCycle_MalformedHierarchyAbortsAndInvalidates(t *testing.T) {
	seed := workPlan()
	seed.Tasks = append(seed.Tasks, hierarchy.TaskRecord{ID: "orphan", Content: "Orphan", ProjectID: "work", ParentID: "ghost"})
	collab := mock.NewCollaborator(seed)
	o := newOrchestrator(t, collab, nil)

	report := o.RunCycle(context.Background())

	assert.Equal(t, orchestrator.SkipMalformed, report.SkipReason)
	assert.True(t, hierarchy.IsMalformed(report.Err))
	assert.Zero(t, collab.Updates())
	assert.Equal(t, 1, collab.Invalidations())
}

func TestRunCycle_FailuresForceFullSync(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	collab.FailTask("draft", errors.New("rate limited"))
	o := newOrchestrator(t, collab, nil)
	ctx := context.Background()

	report := o.RunCycle(ctx)
	require.Equal(t, 1, report.Failed())
	assert.Equal(t, "draft", report.Failures[0].TaskID)
	assert.Equal(t, 1, collab.Invalidations())

	collab.HealTask("draft")

	report = o.RunCycle(ctx)
	assert.False(t, report.Skipped(), "a failed update is retried rather than hidden behind an unchanged sync")
	assert.Equal(t, 1, report.Applied)
	assert.Equal(t, []string{"next_action"}, collab.Labels("draft"))
}

func TestRunCycle_CreatesMissingLabels(t *testing.T) {
	seed := workPlan()
	seed.Labels = nil
	collab := mock.NewCollaborator(seed)
	o := newOrchestrator(t, collab, nil)

	report := o.RunCycle(context.Background())

	assert.Equal(t, []string{"next_action"}, report.MissingLabels)
	assert.Equal(t, []string{"next_action"}, report.LabelsCreated)
	assert.Equal(t, []string{"next_action"}, collab.CreatedLabels())
}

func TestRunCycle_MarkerReload(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	updates := make(chan []marker.Marker, 1)
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) { c.MarkerUpdates = updates })
	ctx := context.Background()

	o.RunCycle(ctx)
	o.RunCycle(ctx)
	require.Equal(t, orchestrator.SkipUnchanged, o.RunCycle(ctx).SkipReason)

	// Rename the label; the old one is no longer owned and stays behind.
	renamed := marker.Marker{Scheme: marker.SchemeSerial, Label: "now", Suffix: "-n"}
	updates <- []marker.Marker{renamed}

	report := o.RunCycle(ctx)
	assert.False(t, report.Skipped(), "a reload forces a full recomputation")
	assert.Equal(t, []marker.Marker{renamed}, o.Markers())
	assert.Equal(t, []string{"next_action", "now"}, collab.Labels("draft"))
}

func TestRunCycle_OnCycleAndSleep(t *testing.T) {
	clock := mock.NewClock(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	collab := mock.NewCollaborator(workPlan())
	collab.OnFetch(func(int) { clock.Advance(3 * time.Second) })

	var reports []orchestrator.CycleReport
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) {
		c.Delay = 5 * time.Second
		c.Clock = clock
		c.OnCycle = func(r orchestrator.CycleReport) { reports = append(reports, r) }
	})

	report := o.RunCycle(context.Background())

	require.Len(t, reports, 1)
	assert.Equal(t, 3*time.Second, report.Duration)
	assert.Equal(t, 2*time.Second, report.SleepFor)

	collab.OnFetch(func(int) { clock.Advance(7 * time.Second) })
	report = o.RunCycle(context.Background())
	assert.Zero(t, report.SleepFor, "a cycle longer than the delay never sleeps a negative time")

	last, ok := o.LastReport()
	require.True(t, ok)
	assert.Equal(t, 2, last.Cycle)
}

func TestRun_Once(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) { c.Once = true })

	require.NoError(t, o.Run(context.Background()))

	assert.Equal(t, 1, collab.Fetches())
	assert.Equal(t, orchestrator.StateStopped, o.State())
	last, ok := o.LastReport()
	require.True(t, ok)
	assert.Zero(t, last.SleepFor)
}

func TestRun_StopsOnCancel(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	ctx, cancel := context.WithCancel(context.Background())

	collab.OnFetch(func(n int) {
		if n == 3 {
			cancel()
		}
	})
	o := newOrchestrator(t, collab, nil)

	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("poll loop did not stop after cancellation")
	}
	assert.Equal(t, 3, collab.Fetches())
	assert.Equal(t, orchestrator.StateStopped, o.State())
}

func TestRun_SleepsDelayMinusCycle(t *testing.T) {
	clock := mock.NewClock(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	collab := mock.NewCollaborator(workPlan())
	collab.OnFetch(func(n int) {
		if n == 1 {
			clock.Advance(3 * time.Second)
		}
	})
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) {
		c.Delay = 5 * time.Second
		c.Clock = clock
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	require.Eventually(t, func() bool { return len(clock.Sleeps()) == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2*time.Second, clock.Sleeps()[0])
	assert.Equal(t, 1, collab.Fetches())

	clock.Advance(2 * time.Second)
	require.Eventually(t, func() bool { return len(clock.Sleeps()) == 2 }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 5*time.Second, clock.Sleeps()[1])
	assert.Equal(t, 2, collab.Fetches())

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("poll loop did not stop after cancellation")
	}
}

// cancelOnWrite cancels the poll loop's context during the first label write.
type cancelOnWrite struct {
	*mock.Collaborator
	cancel context.CancelFunc
	once   sync.Once
}

func (c *cancelOnWrite) ApplyLabelUpdate(ctx context.Context, taskID string, labels []string) error {
	c.once.Do(c.cancel)
	return c.Collaborator.ApplyLabelUpdate(ctx, taskID, labels)
}

func TestRun_CancelDuringApplyFinishesCycle(t *testing.T) {
	snap := fixtures.NewSnapshot().
		Project("home", "Home -p").
		Task("a", "home", "A").
		Task("b", "home", "B").
		Task("c", "home", "C").
		PersonalLabels("doable").
		Snapshot()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	collab := &cancelOnWrite{Collaborator: mock.NewCollaborator(snap), cancel: cancel}

	var reports []orchestrator.CycleReport
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) {
		c.Markers = []marker.Marker{{Scheme: marker.SchemeParallel, Label: "doable", Suffix: "-p"}}
		c.Apply.Concurrency = 1
		c.Delay = time.Hour
		c.OnCycle = func(r orchestrator.CycleReport) { reports = append(reports, r) }
	})

	require.NoError(t, o.Run(ctx))

	require.Len(t, reports, 1)
	assert.Len(t, reports[0].Updates, 3)
	assert.Equal(t, 3, reports[0].Applied)
	assert.Empty(t, reports[0].Failures)
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, []string{"doable"}, collab.Labels(id), id)
	}
	assert.Equal(t, 1, collab.Fetches())
	assert.Equal(t, orchestrator.StateStopped, o.State())
}

func TestRun_CancelInterruptsSleep(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) { c.Delay = time.Hour })

	ctx, cancel := context.WithCancel(context.Background())
	states := o.SubscribeToStateChanges()

	done := make(chan error, 1)
	go func() { done <- o.Run(ctx) }()

	waitForState(t, states, orchestrator.StateSleeping)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sleep was not interrupted")
	}
	assert.Equal(t, 1, collab.Fetches())
}

func TestStateTransitions(t *testing.T) {
	collab := mock.NewCollaborator(workPlan())
	o := newOrchestrator(t, collab, func(c *orchestrator.Config) { c.Once = true })
	states := o.SubscribeToStateChanges()

	require.NoError(t, o.Run(context.Background()))

	var seen []orchestrator.State
	for len(states) > 0 {
		ev := <-states
		seen = append(seen, ev.NewState)
	}
	assert.Equal(t, []orchestrator.State{
		orchestrator.StateFetching,
		orchestrator.StateComputing,
		orchestrator.StateReconciling,
		orchestrator.StateStopped,
	}, seen)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Fetching", orchestrator.StateFetching.String())
	assert.Equal(t, "Stopped", orchestrator.StateStopped.String())
	assert.Equal(t, "Unknown", orchestrator.State(42).String())
}

func waitForState(t *testing.T, states <-chan orchestrator.StateChangedEvent, want orchestrator.State) {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-states:
			if ev.NewState == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}
