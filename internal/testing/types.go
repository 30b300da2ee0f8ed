package testing

import (
	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
)

// Scenario is a declarative end-to-end case: an account, the markers in
// effect, and a sequence of steps each followed by the labels tasks must
// carry.
type Scenario struct {
	// Name is the unique identifier for the scenario
	Name string `yaml:"name"`
	// Description provides human-readable scenario description
	Description string `yaml:"description,omitempty"`
	// Markers are evaluated in order on every cycle
	Markers []marker.Marker `yaml:"markers"`
	// Account is the initial account state
	Account Account `yaml:"account"`
	// Steps run in order against the same account
	Steps []Step `yaml:"steps"`
	// Skip indicates whether this scenario should be skipped
	Skip bool `yaml:"skip,omitempty"`
}

// Account is a Todoist account written as a tree.
type Account struct {
	// Labels are the personal labels that exist before the first cycle.
	Labels   []string      `yaml:"labels,omitempty"`
	Projects []ProjectSpec `yaml:"projects"`
}

// ProjectSpec is a project with its direct tasks, sections and sub-projects.
type ProjectSpec struct {
	ID       string        `yaml:"id"`
	Name     string        `yaml:"name"`
	Tasks    []TaskSpec    `yaml:"tasks,omitempty"`
	Sections []SectionSpec `yaml:"sections,omitempty"`
	Projects []ProjectSpec `yaml:"projects,omitempty"`
}

// SectionSpec is a section and its root tasks.
type SectionSpec struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Tasks []TaskSpec `yaml:"tasks,omitempty"`
}

// TaskSpec is a task and its sub-tasks.
type TaskSpec struct {
	ID        string     `yaml:"id"`
	Content   string     `yaml:"content"`
	Labels    []string   `yaml:"labels,omitempty"`
	Completed bool       `yaml:"completed,omitempty"`
	Tasks     []TaskSpec `yaml:"tasks,omitempty"`
}

// Step changes the account as a user would, runs one cycle and checks the
// result.
type Step struct {
	Name string `yaml:"name"`

	// Complete checks off tasks by id.
	Complete []string `yaml:"complete,omitempty"`
	// Rename maps project, section or task ids to their new names.
	Rename map[string]string `yaml:"rename,omitempty"`
	// SetLabels replaces task labels by hand, before the cycle.
	SetLabels map[string][]string `yaml:"setLabels,omitempty"`

	// Expect maps task ids to the labels they must carry after the cycle,
	// in any order. Tasks not listed are not checked.
	Expect map[string][]string `yaml:"expect"`
	// ExpectUpdates, when set, is the number of label updates the cycle must
	// send.
	ExpectUpdates *int `yaml:"expectUpdates,omitempty"`
}

// ScenarioResult is the outcome of running a scenario.
type ScenarioResult struct {
	Name  string
	Steps []StepResult
}

// Passed reports whether every step passed.
func (r ScenarioResult) Passed() bool {
	for _, s := range r.Steps {
		if !s.Passed() {
			return false
		}
	}
	return true
}

// StepResult is the outcome of one step.
type StepResult struct {
	Name   string
	Report orchestrator.CycleReport

	// Mismatches lists tasks whose labels differ from Expect.
	Mismatches []Mismatch

	// UpdateCountMismatch is set when ExpectUpdates did not hold.
	UpdateCountMismatch bool

	// Unstable is set when a follow-up cycle still wanted changes.
	Unstable bool
}

// Passed reports whether the step met all expectations.
func (r StepResult) Passed() bool {
	return len(r.Mismatches) == 0 && !r.UpdateCountMismatch && !r.Unstable && r.Report.Err == nil
}

// Mismatch is a task whose labels differ from what the step expected.
type Mismatch struct {
	TaskID string
	Want   []string
	Got    []string
}
