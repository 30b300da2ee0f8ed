package testing_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bottest "github.com/ShayHill/todoist-bot/internal/testing"
)

func TestScenarios(t *testing.T) {
	scenarios, err := bottest.LoadScenarios("testdata/scenarios")
	require.NoError(t, err)
	require.Len(t, scenarios, 3)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			if s.Skip {
				t.Skip("scenario marked skip")
			}
			result, err := bottest.RunScenario(context.Background(), s)
			require.NoError(t, err)
			require.Len(t, result.Steps, len(s.Steps))

			for _, step := range result.Steps {
				assert.NoError(t, step.Report.Err, step.Name)
				assert.Empty(t, step.Mismatches, step.Name)
				assert.False(t, step.UpdateCountMismatch, "%s: sent %d updates", step.Name, len(step.Report.Updates))
				assert.False(t, step.Unstable, step.Name)
			}
			assert.True(t, result.Passed())
		})
	}
}

func TestLoadScenarios_SortedByName(t *testing.T) {
	scenarios, err := bottest.LoadScenarios("testdata/scenarios")
	require.NoError(t, err)

	var names []string
	for _, s := range scenarios {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"parallel-sections", "serial-next-action", "stale-labels"}, names)
}

func TestLoadScenarios_SingleFile(t *testing.T) {
	scenarios, err := bottest.LoadScenarios("testdata/scenarios/serial.yaml")
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, "serial-next-action", scenarios[0].Name)
	assert.Len(t, scenarios[0].Steps, 3)
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenarios_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "missing name",
			content: "markers: [{scheme: serial, label: x, suffix: -x}]\nsteps: [{expect: {}}]\n",
			errMsg:  "scenario name is required",
		},
		{
			name:    "no markers",
			content: "name: s\nsteps: [{expect: {}}]\n",
			errMsg:  "at least one marker",
		},
		{
			name:    "no steps",
			content: "name: s\nmarkers: [{scheme: serial, label: x, suffix: -x}]\n",
			errMsg:  "at least one step",
		},
		{
			name:    "unknown field",
			content: "name: s\nbogus: true\n",
			errMsg:  "failed to parse scenario file",
		},
		{
			name: "duplicate task id",
			content: `name: s
markers: [{scheme: serial, label: x, suffix: -x}]
account:
  projects:
    - id: p
      name: P
      tasks: [{id: t, content: A}, {id: t, content: B}]
steps: [{expect: {}}]
`,
			errMsg: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := bottest.LoadScenarios(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadScenarios_MissingPath(t *testing.T) {
	_, err := bottest.LoadScenarios(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRunScenario_ReportsMismatch(t *testing.T) {
	path := writeScenario(t, `name: wrong-expectation
markers: [{scheme: serial, label: next_action, suffix: -n}]
account:
  projects:
    - id: p
      name: P -n
      tasks: [{id: a, content: A}, {id: b, content: B}]
steps:
  - expect: {b: [next_action]}
    expectUpdates: 2
`)
	scenarios, err := bottest.LoadScenarios(path)
	require.NoError(t, err)

	result, err := bottest.RunScenario(context.Background(), scenarios[0])
	require.NoError(t, err)
	require.Len(t, result.Steps, 1)

	step := result.Steps[0]
	assert.Equal(t, "step 1", step.Name)
	assert.True(t, step.UpdateCountMismatch)
	require.Len(t, step.Mismatches, 1)
	assert.Equal(t, bottest.Mismatch{TaskID: "b", Want: []string{"next_action"}, Got: []string{}}, step.Mismatches[0])
	assert.False(t, step.Passed())
	assert.False(t, result.Passed())
}

func TestAccount_Snapshot(t *testing.T) {
	a := bottest.Account{
		Labels: []string{"next_action"},
		Projects: []bottest.ProjectSpec{{
			ID:   "p",
			Name: "P",
			Tasks: []bottest.TaskSpec{{
				ID: "t", Content: "T",
				Tasks: []bottest.TaskSpec{{ID: "t1", Content: "T1", Completed: true}},
			}},
			Sections: []bottest.SectionSpec{{ID: "s", Name: "S", Tasks: []bottest.TaskSpec{{ID: "st", Content: "ST"}}}},
			Projects: []bottest.ProjectSpec{{ID: "sub", Name: "Sub"}},
		}},
	}

	snap := a.Snapshot()
	assert.Equal(t, []string{"next_action"}, snap.Labels)
	require.Len(t, snap.Projects, 2)
	assert.Equal(t, "p", snap.Projects[1].ParentID)
	require.Len(t, snap.Sections, 1)
	assert.Equal(t, "p", snap.Sections[0].ProjectID)
	require.Len(t, snap.Tasks, 3)
	assert.Equal(t, "t", snap.Tasks[1].ParentID)
	assert.True(t, snap.Tasks[1].Completed)
	assert.Equal(t, "s", snap.Tasks[2].SectionID)
}
