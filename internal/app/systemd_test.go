package app

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
)

type recordingNotify struct {
	mu     sync.Mutex
	states []string
	err    error
}

func (r *recordingNotify) notify(state string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return r.err == nil, r.err
}

func (r *recordingNotify) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.states...)
}

func TestNotifier_Lifecycle(t *testing.T) {
	rec := &recordingNotify{}
	n := &Notifier{notify: rec.notify}

	n.Cycle(orchestrator.CycleReport{Cycle: 1})
	assert.Empty(t, rec.sent(), "no status before READY")

	n.Ready()
	n.Cycle(orchestrator.CycleReport{Cycle: 1, Applied: 2})
	n.Stopping()

	assert.Equal(t, []string{
		"READY=1",
		"STATUS=cycle 1: 2 applied, 0 failed",
		"STOPPING=1",
	}, rec.sent())
}

func TestNotifier_WatchdogPing(t *testing.T) {
	rec := &recordingNotify{}
	n := &Notifier{notify: rec.notify, watchdog: 10 * time.Second}

	n.Ready()
	n.Cycle(orchestrator.CycleReport{Cycle: 4, SkipReason: orchestrator.SkipUnchanged})

	assert.Equal(t, []string{
		"READY=1",
		"STATUS=cycle 4 skipped: unchanged",
		"WATCHDOG=1",
	}, rec.sent())
	assert.Equal(t, 10*time.Second, n.WatchdogInterval())
}

func TestNotifier_ErrorsAreNotFatal(t *testing.T) {
	rec := &recordingNotify{err: errors.New("socket gone")}
	n := &Notifier{notify: rec.notify}

	assert.NotPanics(t, func() {
		n.Ready()
		n.Stopping()
	})
	assert.Len(t, rec.sent(), 2)
}

func TestNewNotifier_OutsideSystemd(t *testing.T) {
	t.Setenv("NOTIFY_SOCKET", "")
	t.Setenv("WATCHDOG_USEC", "")

	n := NewNotifier()
	assert.Zero(t, n.WatchdogInterval())
	assert.NotPanics(t, n.Ready)
}

func TestCycleStatus(t *testing.T) {
	tests := []struct {
		name   string
		report orchestrator.CycleReport
		want   string
	}{
		{
			name:   "skipped",
			report: orchestrator.CycleReport{Cycle: 2, SkipReason: orchestrator.SkipFetch},
			want:   "cycle 2 skipped: fetch-failed",
		},
		{
			name:   "dry run",
			report: orchestrator.CycleReport{Cycle: 3, DryRun: true, Withheld: 5},
			want:   "cycle 3: 5 updates withheld (dry run)",
		},
		{
			name: "failures",
			report: orchestrator.CycleReport{
				Cycle:    7,
				Applied:  1,
				Failures: []*reconciler.UpdateApplyError{{TaskID: "t"}},
			},
			want: "cycle 7: 1 applied, 1 failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cycleStatus(tt.report))
		})
	}
}
