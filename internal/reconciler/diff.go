package reconciler

import (
	"github.com/ShayHill/todoist-bot/internal/hierarchy"
)

// Diff compares the desired assignment with the labels observed on every task
// and returns one update per task whose owned labels differ, in forest order.
//
// For a task t: add = desired(t) − labels(t) and remove = (labels(t) ∩ owned) −
// desired(t). A converged forest yields no updates.
func Diff(f *hierarchy.Forest, d Desired) []LabelUpdate {
	var updates []LabelUpdate
	for _, task := range f.Tasks() {
		if u, ok := diffTask(task, d); ok {
			updates = append(updates, u)
		}
	}
	return updates
}

func diffTask(task *hierarchy.Node, d Desired) (LabelUpdate, bool) {
	want := d.Labels(task.ID)
	have := NewLabelSet(task.Labels...)

	var add []string
	for _, l := range want.Sorted() {
		if !have.Has(l) {
			add = append(add, l)
		}
	}

	var (
		remove []string
		keep   []string
	)
	for _, l := range task.Labels {
		if d.Owned.Has(l) && !want.Has(l) {
			remove = append(remove, l)
			continue
		}
		keep = append(keep, l)
	}

	if len(add) == 0 && len(remove) == 0 {
		return LabelUpdate{}, false
	}

	labels := make([]string, 0, len(keep)+len(add))
	labels = append(labels, keep...)
	labels = append(labels, add...)

	return LabelUpdate{
		TaskID:   task.ID,
		TaskName: task.Name,
		Add:      add,
		Remove:   remove,
		Labels:   labels,
	}, true
}

// MissingLabels returns the labels that updates will add but that are not in
// existing, sorted.
func MissingLabels(updates []LabelUpdate, existing []string) []string {
	have := NewLabelSet(existing...)
	missing := make(LabelSet)
	for _, u := range updates {
		for _, l := range u.Add {
			if !have.Has(l) {
				missing.Add(l)
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return missing.Sorted()
}
