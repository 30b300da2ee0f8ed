// Package formatting renders bot reports for the command line.
//
// The same data (configured markers, computed label updates, cycle reports
// and reconciler metrics) can be printed as a rich table, plain console
// lines, JSON or YAML. Commands pick the format with their -o flag.
package formatting

import (
	"fmt"
	"strings"

	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole OutputFormat = "console" // Simple console output
	FormatJSON    OutputFormat = "json"    // JSON output
	FormatYAML    OutputFormat = "yaml"    // YAML output
	FormatTable   OutputFormat = "table"   // Rich table output
)

// ParseFormat converts a flag value into an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, console, json or yaml)", s)
	}
}

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
}

// Formatter renders bot data as text.
type Formatter interface {
	FormatMarkers(markers []marker.Marker) string
	FormatUpdates(updates []reconciler.LabelUpdate) string
	FormatCycleReport(report orchestrator.CycleReport) string
	FormatMetrics(summary reconciler.ReconcilerMetricsSummary) string

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatConsole:
		return NewConsoleFormatter(options)
	case FormatTable:
		fallthrough
	default:
		return NewTableFormatter(options)
	}
}

// New is shorthand for NewFactory().CreateFormatter(options).
func New(options Options) Formatter {
	return NewFactory().CreateFormatter(options)
}
