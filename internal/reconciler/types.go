package reconciler

import (
	"context"
	"sort"
	"time"
)

// LabelSet is a set of label names.
type LabelSet map[string]struct{}

// NewLabelSet returns a set holding labels.
func NewLabelSet(labels ...string) LabelSet {
	s := make(LabelSet, len(labels))
	for _, l := range labels {
		s.Add(l)
	}
	return s
}

// Add inserts label into the set.
func (s LabelSet) Add(label string) {
	s[label] = struct{}{}
}

// Has reports whether label is in the set. A nil set holds nothing.
func (s LabelSet) Has(label string) bool {
	_, ok := s[label]
	return ok
}

// Sorted returns the labels in lexical order.
func (s LabelSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// LabelUpdate is the change the reconciler wants for one task.
type LabelUpdate struct {
	TaskID   string `json:"taskId" yaml:"taskId"`
	TaskName string `json:"taskName" yaml:"taskName"`

	// Add lists labels to attach, sorted.
	Add []string `json:"add,omitempty" yaml:"add,omitempty"`

	// Remove lists owned labels to detach, in the task's current label order.
	Remove []string `json:"remove,omitempty" yaml:"remove,omitempty"`

	// Labels is the task's full label list after the update. It is sent as a
	// single replace so that add and remove cannot interleave with other edits.
	Labels []string `json:"labels" yaml:"labels"`
}

// LabelWriter replaces the labels of one task.
type LabelWriter interface {
	ApplyLabelUpdate(ctx context.Context, taskID string, labels []string) error
}

// LabelCreator creates a personal label. Writers that also implement it get
// missing labels created before any task update refers to them.
type LabelCreator interface {
	CreateLabel(ctx context.Context, name string) error
}

// ApplierConfig holds configuration for the Applier.
type ApplierConfig struct {
	// Concurrency bounds the number of in-flight task updates.
	// Defaults to 4 if not specified.
	Concurrency int

	// Timeout bounds each individual update call.
	// Defaults to 30 seconds if not specified.
	Timeout time.Duration

	// DryRun computes and reports updates without sending them.
	DryRun bool
}

// ApplyResult summarizes one Apply call.
type ApplyResult struct {
	// Applied counts updates the writer accepted.
	Applied int

	// Withheld counts updates not sent because of dry-run.
	Withheld int

	// Failures holds one error per update the writer rejected.
	Failures []*UpdateApplyError

	// MissingLabels lists labels about to be added that the account lacks.
	MissingLabels []string

	// LabelsCreated lists the missing labels that were created.
	LabelsCreated []string

	// LabelFailures holds errors from creating missing labels.
	LabelFailures []error
}
