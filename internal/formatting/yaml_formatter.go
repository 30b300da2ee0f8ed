package formatting

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatMarkers formats markers the way they are written in config.yaml.
func (f *YAMLFormatter) FormatMarkers(markers []marker.Marker) string {
	if markers == nil {
		markers = []marker.Marker{}
	}
	return f.marshal(map[string]interface{}{"markers": markers})
}

// FormatUpdates formats updates as a YAML list.
func (f *YAMLFormatter) FormatUpdates(updates []reconciler.LabelUpdate) string {
	if updates == nil {
		updates = []reconciler.LabelUpdate{}
	}
	return f.marshal(map[string]interface{}{"updates": updates})
}

// FormatCycleReport formats a cycle report with its error messages.
func (f *YAMLFormatter) FormatCycleReport(r orchestrator.CycleReport) string {
	return f.marshal(newCycleReportView(r))
}

// FormatMetrics formats the metrics summary.
func (f *YAMLFormatter) FormatMetrics(s reconciler.ReconcilerMetricsSummary) string {
	return f.marshal(s)
}

func (f *YAMLFormatter) marshal(v interface{}) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %q\n", err.Error())
	}
	return string(out)
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}
