package reconciler

import (
	"sort"
	"sync"
	"time"

	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// ReconcilerMetrics tracks label reconciliation outcomes across poll cycles.
//
// Counters are kept globally and per owned label so that a label whose updates
// keep failing can be spotted in the cycle summary.
type ReconcilerMetrics struct {
	mu sync.RWMutex

	labelMetrics map[string]*labelMetrics

	totalCycles          int64
	totalCyclesSkipped   int64
	totalCyclesAborted   int64
	totalUpdatesComputed int64
	totalUpdatesApplied  int64
	totalUpdatesFailed   int64
	totalUpdatesWithheld int64
	lastCycleAt          time.Time
}

type labelMetrics struct {
	Label         string
	Added         int64
	Removed       int64
	Failures      int64
	LastAppliedAt time.Time
	LastFailureAt time.Time
}

// NewReconcilerMetrics creates a new ReconcilerMetrics instance.
func NewReconcilerMetrics() *ReconcilerMetrics {
	return &ReconcilerMetrics{
		labelMetrics: make(map[string]*labelMetrics),
	}
}

func (m *ReconcilerMetrics) getOrCreateLabelMetrics(label string) *labelMetrics {
	if metrics, exists := m.labelMetrics[label]; exists {
		return metrics
	}
	metrics := &labelMetrics{Label: label}
	m.labelMetrics[label] = metrics
	return metrics
}

// RecordCycle records a completed computation with the number of updates it produced.
func (m *ReconcilerMetrics) RecordCycle(updates int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCycles++
	m.totalUpdatesComputed += int64(updates)
	m.lastCycleAt = time.Now()
}

// RecordCycleSkipped records a cycle skipped because nothing changed remotely
// or the fetch failed transiently.
func (m *ReconcilerMetrics) RecordCycleSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCyclesSkipped++
}

// RecordCycleAborted records a cycle aborted on a malformed hierarchy.
func (m *ReconcilerMetrics) RecordCycleAborted(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalCyclesAborted++
	logging.Warn("ReconcilerMetrics", "Cycle aborted: %s (aborted: %d)", reason, m.totalCyclesAborted)
}

// RecordUpdateApplied records a label update accepted by the remote service.
func (m *ReconcilerMetrics) RecordUpdateApplied(u LabelUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.totalUpdatesApplied++
	for _, l := range u.Add {
		lm := m.getOrCreateLabelMetrics(l)
		lm.Added++
		lm.LastAppliedAt = now
	}
	for _, l := range u.Remove {
		lm := m.getOrCreateLabelMetrics(l)
		lm.Removed++
		lm.LastAppliedAt = now
	}
}

// RecordUpdateFailure records a label update the remote service rejected.
func (m *ReconcilerMetrics) RecordUpdateFailure(u LabelUpdate, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.totalUpdatesFailed++
	for _, l := range append(append([]string(nil), u.Add...), u.Remove...) {
		lm := m.getOrCreateLabelMetrics(l)
		lm.Failures++
		lm.LastFailureAt = now
	}

	logging.Debug("ReconcilerMetrics", "Update failure for task %s: %s (failures: %d)",
		u.TaskID, reason, m.totalUpdatesFailed)
}

// RecordUpdateWithheld records an update computed in dry-run mode.
func (m *ReconcilerMetrics) RecordUpdateWithheld(u LabelUpdate) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalUpdatesWithheld++
}

// ReconcilerMetricsSummary provides a summary of reconciliation metrics.
type ReconcilerMetricsSummary struct {
	TotalCycles          int64             `json:"total_cycles" yaml:"totalCycles"`
	TotalCyclesSkipped   int64             `json:"total_cycles_skipped" yaml:"totalCyclesSkipped"`
	TotalCyclesAborted   int64             `json:"total_cycles_aborted" yaml:"totalCyclesAborted"`
	TotalUpdatesComputed int64             `json:"total_updates_computed" yaml:"totalUpdatesComputed"`
	TotalUpdatesApplied  int64             `json:"total_updates_applied" yaml:"totalUpdatesApplied"`
	TotalUpdatesFailed   int64             `json:"total_updates_failed" yaml:"totalUpdatesFailed"`
	TotalUpdatesWithheld int64             `json:"total_updates_withheld" yaml:"totalUpdatesWithheld"`
	UpdateFailureRate    float64           `json:"update_failure_rate" yaml:"updateFailureRate"`
	LastCycleAt          time.Time         `json:"last_cycle_at,omitempty" yaml:"lastCycleAt,omitempty"`
	PerLabelMetrics      []LabelMetricView `json:"per_label_metrics" yaml:"perLabelMetrics"`
}

// LabelMetricView is a read-only view of one label's metrics.
type LabelMetricView struct {
	Label         string    `json:"label" yaml:"label"`
	Added         int64     `json:"added" yaml:"added"`
	Removed       int64     `json:"removed" yaml:"removed"`
	Failures      int64     `json:"failures" yaml:"failures"`
	LastAppliedAt time.Time `json:"last_applied_at,omitempty" yaml:"lastAppliedAt,omitempty"`
	LastFailureAt time.Time `json:"last_failure_at,omitempty" yaml:"lastFailureAt,omitempty"`
}

// GetSummary returns a snapshot of all metrics. Labels are sorted by name.
func (m *ReconcilerMetrics) GetSummary() ReconcilerMetricsSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := ReconcilerMetricsSummary{
		TotalCycles:          m.totalCycles,
		TotalCyclesSkipped:   m.totalCyclesSkipped,
		TotalCyclesAborted:   m.totalCyclesAborted,
		TotalUpdatesComputed: m.totalUpdatesComputed,
		TotalUpdatesApplied:  m.totalUpdatesApplied,
		TotalUpdatesFailed:   m.totalUpdatesFailed,
		TotalUpdatesWithheld: m.totalUpdatesWithheld,
		LastCycleAt:          m.lastCycleAt,
		PerLabelMetrics:      make([]LabelMetricView, 0, len(m.labelMetrics)),
	}

	if attempts := m.totalUpdatesApplied + m.totalUpdatesFailed; attempts > 0 {
		summary.UpdateFailureRate = float64(m.totalUpdatesFailed) / float64(attempts)
	}

	for _, lm := range m.labelMetrics {
		summary.PerLabelMetrics = append(summary.PerLabelMetrics, LabelMetricView{
			Label:         lm.Label,
			Added:         lm.Added,
			Removed:       lm.Removed,
			Failures:      lm.Failures,
			LastAppliedAt: lm.LastAppliedAt,
			LastFailureAt: lm.LastFailureAt,
		})
	}
	sort.Slice(summary.PerLabelMetrics, func(i, j int) bool {
		return summary.PerLabelMetrics[i].Label < summary.PerLabelMetrics[j].Label
	})

	return summary
}

// GetLabelMetrics returns the metrics of a single label.
func (m *ReconcilerMetrics) GetLabelMetrics(label string) (LabelMetricView, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lm, ok := m.labelMetrics[label]
	if !ok {
		return LabelMetricView{}, false
	}
	return LabelMetricView{
		Label:         lm.Label,
		Added:         lm.Added,
		Removed:       lm.Removed,
		Failures:      lm.Failures,
		LastAppliedAt: lm.LastAppliedAt,
		LastFailureAt: lm.LastFailureAt,
	}, true
}

// Reset clears all metrics.
func (m *ReconcilerMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.labelMetrics = make(map[string]*labelMetrics)
	m.totalCycles = 0
	m.totalCyclesSkipped = 0
	m.totalCyclesAborted = 0
	m.totalUpdatesComputed = 0
	m.totalUpdatesApplied = 0
	m.totalUpdatesFailed = 0
	m.totalUpdatesWithheld = 0
	m.lastCycleAt = time.Time{}
}

// Global metrics instance.
// This is initialized lazily and should be accessed via GetReconcilerMetrics().
var (
	globalReconcilerMetrics   *ReconcilerMetrics
	globalReconcilerMetricsMu sync.RWMutex
)

// GetReconcilerMetrics returns the global reconciler metrics instance.
// It creates the instance on first access (lazy initialization).
func GetReconcilerMetrics() *ReconcilerMetrics {
	globalReconcilerMetricsMu.RLock()
	if globalReconcilerMetrics != nil {
		defer globalReconcilerMetricsMu.RUnlock()
		return globalReconcilerMetrics
	}
	globalReconcilerMetricsMu.RUnlock()

	globalReconcilerMetricsMu.Lock()
	defer globalReconcilerMetricsMu.Unlock()

	// Double-check after acquiring write lock
	if globalReconcilerMetrics == nil {
		globalReconcilerMetrics = NewReconcilerMetrics()
	}
	return globalReconcilerMetrics
}
