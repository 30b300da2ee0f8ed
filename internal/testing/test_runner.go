package testing

import (
	"context"
	"fmt"
	"sort"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
	"github.com/ShayHill/todoist-bot/internal/testing/mock"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// RunScenario runs s against a fresh in-memory account.
//
// Each step applies its changes, runs one cycle, compares labels with Expect
// and then runs a second cycle that must not want further changes.
func RunScenario(ctx context.Context, s Scenario) (ScenarioResult, error) {
	result := ScenarioResult{Name: s.Name}

	collab := mock.NewCollaborator(s.Account.Snapshot())
	orch, err := orchestrator.New(collab, orchestrator.Config{
		Markers: s.Markers,
		Once:    true,
		Metrics: reconciler.NewReconcilerMetrics(),
	})
	if err != nil {
		return result, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	for i, step := range s.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step %d", i+1)
		}
		logging.Debug("Scenario", "%s: %s", s.Name, name)

		applyStep(collab, step)

		sr := StepResult{Name: name, Report: orch.RunCycle(ctx)}
		if step.ExpectUpdates != nil && len(sr.Report.Updates) != *step.ExpectUpdates {
			sr.UpdateCountMismatch = true
		}
		sr.Mismatches = compareLabels(collab, step.Expect)

		if follow := orch.RunCycle(ctx); len(follow.Updates) > 0 {
			sr.Unstable = true
		}
		result.Steps = append(result.Steps, sr)
	}
	return result, nil
}

func applyStep(collab *mock.Collaborator, step Step) {
	for _, id := range step.Complete {
		collab.CompleteTask(id)
	}
	if len(step.Rename) == 0 && len(step.SetLabels) == 0 {
		return
	}
	collab.Mutate(func(s *hierarchy.Snapshot) {
		for i := range s.Projects {
			if name, ok := step.Rename[s.Projects[i].ID]; ok {
				s.Projects[i].Name = name
			}
		}
		for i := range s.Sections {
			if name, ok := step.Rename[s.Sections[i].ID]; ok {
				s.Sections[i].Name = name
			}
		}
		for i := range s.Tasks {
			if name, ok := step.Rename[s.Tasks[i].ID]; ok {
				s.Tasks[i].Content = name
			}
			if labels, ok := step.SetLabels[s.Tasks[i].ID]; ok {
				s.Tasks[i].Labels = append([]string(nil), labels...)
			}
		}
	})
}

func compareLabels(collab *mock.Collaborator, expect map[string][]string) []Mismatch {
	ids := make([]string, 0, len(expect))
	for id := range expect {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var mismatches []Mismatch
	for _, id := range ids {
		want := sortedCopy(expect[id])
		got := sortedCopy(collab.Labels(id))
		if !equalStrings(want, got) {
			mismatches = append(mismatches, Mismatch{TaskID: id, Want: want, Got: got})
		}
	}
	return mismatches
}

func sortedCopy(in []string) []string {
	out := append([]string{}, in...)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
