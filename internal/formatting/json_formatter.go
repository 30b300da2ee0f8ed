package formatting

import (
	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatMarkers formats markers as a JSON array.
func (f *JSONFormatter) FormatMarkers(markers []marker.Marker) string {
	if markers == nil {
		markers = []marker.Marker{}
	}
	return PrettyJSON(markers)
}

// FormatUpdates formats updates as a JSON array.
func (f *JSONFormatter) FormatUpdates(updates []reconciler.LabelUpdate) string {
	if updates == nil {
		updates = []reconciler.LabelUpdate{}
	}
	return PrettyJSON(updates)
}

// FormatCycleReport formats a cycle report with its error messages.
func (f *JSONFormatter) FormatCycleReport(r orchestrator.CycleReport) string {
	return PrettyJSON(newCycleReportView(r))
}

// FormatMetrics formats the metrics summary.
func (f *JSONFormatter) FormatMetrics(s reconciler.ReconcilerMetricsSummary) string {
	return PrettyJSON(s)
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}
