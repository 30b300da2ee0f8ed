package reconciler

import (
	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/selection"
)

// Desired is the label assignment the engine wants for the current forest.
type Desired struct {
	// Assignment maps task id to the labels that must be present.
	Assignment map[string]LabelSet

	// Owned holds every label the engine manages this run. Labels outside it are
	// never added or removed.
	Owned LabelSet
}

// Labels returns the desired labels for a task; nil when none are wanted.
func (d Desired) Labels(taskID string) LabelSet {
	return d.Assignment[taskID]
}

// BuildDesired unions each marker's label into the assignment of every target
// task under every node the marker matched. Owned covers all markers, including
// those that matched nothing, so labels left behind by a removed suffix are
// still cleaned up.
func BuildDesired(matches []marker.Match) Desired {
	d := Desired{
		Assignment: make(map[string]LabelSet),
		Owned:      make(LabelSet, len(matches)),
	}
	for _, m := range matches {
		d.Owned.Add(m.Marker.Label)
		for _, root := range m.Nodes {
			for _, task := range selection.Targets(m.Marker.Scheme, root) {
				set, ok := d.Assignment[task.ID]
				if !ok {
					set = make(LabelSet)
					d.Assignment[task.ID] = set
				}
				set.Add(m.Marker.Label)
			}
		}
	}
	return d
}
