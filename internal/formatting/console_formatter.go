package formatting

import (
	"fmt"
	"strings"

	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
)

// ConsoleFormatter provides simple console output formatting
type ConsoleFormatter struct {
	options Options
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options) Formatter {
	return &ConsoleFormatter{
		options: options,
	}
}

// FormatMarkers formats markers as "scheme label suffix" lines.
func (f *ConsoleFormatter) FormatMarkers(markers []marker.Marker) string {
	if len(markers) == 0 {
		return "No markers configured."
	}

	var output []string
	output = append(output, fmt.Sprintf("Markers (%d):", len(markers)))
	for i, m := range markers {
		output = append(output, fmt.Sprintf("  %d. %-8s %-24s %s", i+1, m.Scheme, m.Label, m.Suffix))
	}
	return strings.Join(output, "\n")
}

// FormatUpdates formats one line per task, "+label" for additions and
// "-label" for removals.
func (f *ConsoleFormatter) FormatUpdates(updates []reconciler.LabelUpdate) string {
	if len(updates) == 0 {
		return "No label changes."
	}

	var output []string
	output = append(output, fmt.Sprintf("Label changes (%d):", len(updates)))
	for _, u := range updates {
		output = append(output, fmt.Sprintf("  %s %q: %s", u.TaskID, u.TaskName, changeList(u)))
	}
	return strings.Join(output, "\n")
}

func changeList(u reconciler.LabelUpdate) string {
	changes := make([]string, 0, len(u.Add)+len(u.Remove))
	for _, l := range u.Add {
		changes = append(changes, "+"+l)
	}
	for _, l := range u.Remove {
		changes = append(changes, "-"+l)
	}
	return strings.Join(changes, " ")
}

// FormatCycleReport formats a one-line summary, then the updates.
func (f *ConsoleFormatter) FormatCycleReport(r orchestrator.CycleReport) string {
	if r.Skipped() {
		line := fmt.Sprintf("Cycle %d skipped (%s) after %s", r.Cycle, r.SkipReason, formatDuration(r.Duration))
		if r.Err != nil {
			line += ": " + r.Err.Error()
		}
		return line
	}

	var output []string
	summary := fmt.Sprintf("Cycle %d: %d nodes, %d markers matched, %d updates", r.Cycle, r.NodesVisited, r.MarkersMatched, len(r.Updates))
	if r.DryRun {
		summary += fmt.Sprintf(" (dry run, %d withheld)", r.Withheld)
	} else {
		summary += fmt.Sprintf(", %d applied, %d failed", r.Applied, r.Failed())
	}
	output = append(output, summary)
	if len(r.Updates) > 0 {
		output = append(output, f.FormatUpdates(r.Updates))
	}
	for _, failure := range r.Failures {
		output = append(output, "  error: "+failure.Error())
	}
	for _, err := range r.LabelFailures {
		output = append(output, "  error: "+err.Error())
	}
	return strings.Join(output, "\n")
}

// FormatMetrics formats metric totals as "name: value" lines.
func (f *ConsoleFormatter) FormatMetrics(s reconciler.ReconcilerMetricsSummary) string {
	output := []string{
		fmt.Sprintf("cycles: %d (skipped %d, aborted %d)", s.TotalCycles, s.TotalCyclesSkipped, s.TotalCyclesAborted),
		fmt.Sprintf("updates: %d computed, %d applied, %d failed, %d withheld",
			s.TotalUpdatesComputed, s.TotalUpdatesApplied, s.TotalUpdatesFailed, s.TotalUpdatesWithheld),
	}
	for _, lm := range s.PerLabelMetrics {
		output = append(output, fmt.Sprintf("  %s: +%d -%d (%d failures)", lm.Label, lm.Added, lm.Removed, lm.Failures))
	}
	return strings.Join(output, "\n")
}

// SetOptions updates the formatter options
func (f *ConsoleFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *ConsoleFormatter) GetOptions() Options {
	return f.options
}
