package formatting

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
	pkgstrings "github.com/ShayHill/todoist-bot/pkg/strings"
)

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatMarkers lists the configured markers in evaluation order.
func (f *TableFormatter) FormatMarkers(markers []marker.Marker) string {
	if len(markers) == 0 {
		return f.formatEmptyMessage("📋", "No markers configured")
	}

	t := f.createTable()
	t.AppendHeader(f.header("#", "SCHEME", "LABEL", "SUFFIX"))
	for i, m := range markers {
		t.AppendRow(table.Row{i + 1, f.paint(text.FgHiGreen, string(m.Scheme)), m.Label, m.Suffix})
	}
	return t.Render() + "\n" + f.formatTotal(len(markers), "markers")
}

// FormatUpdates lists computed label changes, one row per task.
func (f *TableFormatter) FormatUpdates(updates []reconciler.LabelUpdate) string {
	if len(updates) == 0 {
		return f.formatEmptyMessage("✓", "No label changes")
	}

	t := f.createTable()
	t.AppendHeader(f.header("TASK ID", "TASK", "ADD", "REMOVE", "LABELS"))
	for _, u := range updates {
		t.AppendRow(table.Row{
			u.TaskID,
			pkgstrings.TruncateName(u.TaskName, pkgstrings.DefaultNameMaxLen),
			f.paint(text.FgGreen, joinOrDash(u.Add)),
			f.paint(text.FgRed, joinOrDash(u.Remove)),
			joinOrDash(u.Labels),
		})
	}
	return t.Render() + "\n" + f.formatTotal(len(updates), "updates")
}

// FormatCycleReport prints the cycle summary followed by its updates and
// failures.
func (f *TableFormatter) FormatCycleReport(r orchestrator.CycleReport) string {
	t := f.createTable()
	t.AppendHeader(f.header("KEY", "VALUE"))
	t.AppendRow(table.Row{"Cycle", r.Cycle})
	t.AppendRow(table.Row{"Duration", formatDuration(r.Duration)})
	if r.Skipped() {
		t.AppendRow(table.Row{"Skipped", f.paint(text.FgYellow, string(r.SkipReason))})
		if r.Err != nil {
			t.AppendRow(table.Row{"Error", f.paint(text.FgRed, r.Err.Error())})
		}
		return t.Render() + "\n"
	}
	t.AppendRow(table.Row{"Dry run", r.DryRun})
	t.AppendRow(table.Row{"Nodes visited", r.NodesVisited})
	t.AppendRow(table.Row{"Markers matched", r.MarkersMatched})
	t.AppendRow(table.Row{"Updates", len(r.Updates)})
	if r.DryRun {
		t.AppendRow(table.Row{"Withheld", r.Withheld})
	} else {
		t.AppendRow(table.Row{"Applied", r.Applied})
		t.AppendRow(table.Row{"Failed", r.Failed()})
	}
	if len(r.MissingLabels) > 0 {
		t.AppendRow(table.Row{"Missing labels", strings.Join(r.MissingLabels, ", ")})
	}
	if len(r.LabelsCreated) > 0 {
		t.AppendRow(table.Row{"Labels created", strings.Join(r.LabelsCreated, ", ")})
	}

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(r.Updates) > 0 {
		b.WriteString(f.FormatUpdates(r.Updates))
	}
	for _, failure := range r.Failures {
		b.WriteString(f.paint(text.FgRed, "✗ "+failure.Error()))
		b.WriteString("\n")
	}
	for _, err := range r.LabelFailures {
		b.WriteString(f.paint(text.FgRed, "✗ "+err.Error()))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatMetrics prints the totals and then per-label counters.
func (f *TableFormatter) FormatMetrics(s reconciler.ReconcilerMetricsSummary) string {
	t := f.createTable()
	t.AppendHeader(f.header("METRIC", "VALUE"))
	t.AppendRows([]table.Row{
		{"Cycles", s.TotalCycles},
		{"Cycles skipped", s.TotalCyclesSkipped},
		{"Cycles aborted", s.TotalCyclesAborted},
		{"Updates computed", s.TotalUpdatesComputed},
		{"Updates applied", s.TotalUpdatesApplied},
		{"Updates failed", s.TotalUpdatesFailed},
		{"Updates withheld", s.TotalUpdatesWithheld},
		{"Failure rate", fmt.Sprintf("%.1f%%", s.UpdateFailureRate*100)},
	})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	if len(s.PerLabelMetrics) == 0 {
		return b.String()
	}

	labels := f.createTable()
	labels.AppendHeader(f.header("LABEL", "ADDED", "REMOVED", "FAILURES"))
	for _, lm := range s.PerLabelMetrics {
		labels.AppendRow(table.Row{lm.Label, lm.Added, lm.Removed, lm.Failures})
	}
	b.WriteString(labels.Render())
	b.WriteString("\n")
	return b.String()
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// Helper methods

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	if f.options.Quiet {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleRounded)
	}
	return t
}

func (f *TableFormatter) header(names ...string) table.Row {
	row := make(table.Row, 0, len(names))
	for _, n := range names {
		row = append(row, f.paint(text.FgHiCyan, n))
	}
	return row
}

// paint colors s when color output is enabled.
func (f *TableFormatter) paint(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	if f.options.Quiet {
		return message + "\n"
	}
	return fmt.Sprintf("%s %s\n", f.paint(text.FgYellow, icon), f.paint(text.FgYellow, message))
}

func (f *TableFormatter) formatTotal(n int, noun string) string {
	if f.options.Quiet {
		return ""
	}
	return fmt.Sprintf("%s %s %s\n",
		f.paint(text.FgHiBlue, "Total:"),
		f.paint(text.FgHiWhite, fmt.Sprint(n)),
		f.paint(text.FgHiBlue, noun))
}
