package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// Notifier sends sd_notify messages. Outside a systemd unit with
// NOTIFY_SOCKET every call is a no-op.
type Notifier struct {
	mu       sync.Mutex
	notify   func(state string) (bool, error)
	watchdog time.Duration
	ready    bool
}

// NewNotifier creates a notifier for the current process.
func NewNotifier() *Notifier {
	watchdog, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		logging.Warn("Systemd", "Ignoring watchdog settings: %v", err)
		watchdog = 0
	}
	return &Notifier{
		notify: func(state string) (bool, error) {
			return daemon.SdNotify(false, state)
		},
		watchdog: watchdog,
	}
}

// WatchdogInterval returns the WATCHDOG_USEC interval, or 0 when the unit has
// no watchdog.
func (n *Notifier) WatchdogInterval() time.Duration {
	return n.watchdog
}

// Ready reports that the first cycle is about to start.
func (n *Notifier) Ready() {
	n.mu.Lock()
	n.ready = true
	n.mu.Unlock()
	n.send(daemon.SdNotifyReady)
}

// Stopping reports a clean shutdown.
func (n *Notifier) Stopping() {
	n.send(daemon.SdNotifyStopping)
}

// Cycle publishes the outcome of a cycle as STATUS and, when the unit has a
// watchdog, pings it. It is installed as the orchestrator's OnCycle hook.
func (n *Notifier) Cycle(r orchestrator.CycleReport) {
	n.mu.Lock()
	ready := n.ready
	n.mu.Unlock()
	if !ready {
		return
	}

	n.send("STATUS=" + cycleStatus(r))
	if n.watchdog > 0 {
		n.send(daemon.SdNotifyWatchdog)
	}
}

func (n *Notifier) send(state string) {
	sent, err := n.notify(state)
	if err != nil {
		logging.Warn("Systemd", "sd_notify %q failed: %v", state, err)
		return
	}
	if sent {
		logging.Debug("Systemd", "Sent %s", state)
	}
}

func cycleStatus(r orchestrator.CycleReport) string {
	if r.Skipped() {
		return fmt.Sprintf("cycle %d skipped: %s", r.Cycle, r.SkipReason)
	}
	if r.DryRun {
		return fmt.Sprintf("cycle %d: %d updates withheld (dry run)", r.Cycle, r.Withheld)
	}
	return fmt.Sprintf("cycle %d: %d applied, %d failed", r.Cycle, r.Applied, r.Failed())
}
