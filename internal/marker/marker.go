// Package marker parses label markers and finds the nodes whose names carry them.
//
// A marker is a (scheme, label, suffix) rule. Any project, section or task whose
// trimmed name ends with the suffix is marked, and the scheme decides which tasks
// at or below it receive the label.
package marker

import (
	"fmt"
	"strings"
)

// Scheme selects which tasks under a marked node receive the label.
type Scheme string

const (
	// SchemeSerial labels the single next leaf task.
	SchemeSerial Scheme = "serial"
	// SchemeParallel labels every leaf task.
	SchemeParallel Scheme = "parallel"
	// SchemeAll labels every task.
	SchemeAll Scheme = "all"
)

// Schemes lists the valid schemes in display order.
var Schemes = []Scheme{SchemeSerial, SchemeParallel, SchemeAll}

// ParseScheme validates a scheme name.
func ParseScheme(s string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(s))) {
	case SchemeSerial:
		return SchemeSerial, nil
	case SchemeParallel:
		return SchemeParallel, nil
	case SchemeAll:
		return SchemeAll, nil
	default:
		return "", fmt.Errorf("unknown scheme %q (want serial, parallel or all)", s)
	}
}

// Marker is one configured labeling rule.
type Marker struct {
	Scheme Scheme `yaml:"scheme" json:"scheme"`
	Label  string `yaml:"label" json:"label"`
	Suffix string `yaml:"suffix" json:"suffix"`
}

// String renders the marker the way it is written on the command line.
func (m Marker) String() string {
	return fmt.Sprintf("%s %q %q", m.Scheme, m.Label, m.Suffix)
}

// ParseArg parses the command-line form "label words suffix". The last word is
// the suffix; the remaining words joined with "_" form the label, so
// "next action -n" becomes label "next_action" with suffix "-n".
func ParseArg(scheme Scheme, arg string) (Marker, error) {
	words := strings.Fields(arg)
	if len(words) < 2 {
		return Marker{}, fmt.Errorf("marker %q must be in the form \"label suffix\"", arg)
	}
	return Marker{
		Scheme: scheme,
		Label:  strings.Join(words[:len(words)-1], "_"),
		Suffix: words[len(words)-1],
	}, nil
}

// OwnedLabels returns the distinct labels of markers, in first-seen order.
func OwnedLabels(markers []Marker) []string {
	seen := make(map[string]bool, len(markers))
	labels := make([]string, 0, len(markers))
	for _, m := range markers {
		if seen[m.Label] {
			continue
		}
		seen[m.Label] = true
		labels = append(labels, m.Label)
	}
	return labels
}
