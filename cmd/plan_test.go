package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayHill/todoist-bot/internal/config"
	"github.com/ShayHill/todoist-bot/internal/testing/fixtures"
	"github.com/ShayHill/todoist-bot/internal/testing/mock"
)

func startSyncServer(t *testing.T) *mock.SyncServer {
	t.Helper()
	ctx := context.Background()

	server := mock.NewSyncServer(mock.SyncServerConfig{
		Seed: fixtures.NewSnapshot().
			Project("work", "Work").
			Section("plan", "work", "Plan -n").
			Task("draft", "work", "Draft", fixtures.InSection("plan")).
			Task("review", "work", "Review", fixtures.InSection("plan")).
			PersonalLabels("next_action").
			Snapshot(),
	})
	_, err := server.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Stop(ctx) })
	return server
}

func serverConfigDir(t *testing.T, server *mock.SyncServer) string {
	t.Helper()
	return writeConfigDir(t, fmt.Sprintf("apiToken: %s\nsyncURL: %s\n", server.APIToken(), server.SyncURL()))
}

func TestPlan_PrintsUpdatesWithoutWriting(t *testing.T) {
	t.Setenv(config.EnvAPIToken, "")
	server := startSyncServer(t)

	out, err := executeCommand(t, newPlanCmd(),
		"--config-path", serverConfigDir(t, server),
		"-s", "next_action -n",
		"-o", "json",
	)
	require.NoError(t, err)

	var report struct {
		DryRun  bool `json:"dryRun"`
		Updates []struct {
			TaskID string   `json:"taskId"`
			Add    []string `json:"add"`
		} `json:"updates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.DryRun)
	require.Len(t, report.Updates, 1)
	assert.Equal(t, "draft", report.Updates[0].TaskID)
	assert.Equal(t, []string{"next_action"}, report.Updates[0].Add)

	assert.Empty(t, server.Labels("draft"))
	assert.Empty(t, server.Commands())
}

func TestPlan_TableOutput(t *testing.T) {
	t.Setenv(config.EnvAPIToken, "")
	server := startSyncServer(t)

	out, err := executeCommand(t, newPlanCmd(),
		"--config-path", serverConfigDir(t, server),
		"-s", "next_action -n",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Draft")
	assert.Contains(t, out, "Withheld")
}

func TestPlan_FetchFailure(t *testing.T) {
	t.Setenv(config.EnvAPIToken, "")
	server := startSyncServer(t)
	server.FailNext(1, 500)

	_, err := executeCommand(t, newPlanCmd(),
		"--config-path", serverConfigDir(t, server),
		"-s", "next_action -n",
		"-o", "console",
	)
	require.Error(t, err)
	assert.Equal(t, ExitCodeError, getExitCode(err))
}

func TestRun_OnceWithReport(t *testing.T) {
	t.Setenv(config.EnvAPIToken, "")
	server := startSyncServer(t)

	out, err := executeCommand(t, newRunCmd(),
		"--config-path", serverConfigDir(t, server),
		"-s", "next_action -n",
		"--once",
		"--report", "console",
	)
	require.NoError(t, err)

	assert.Contains(t, out, "Cycle 1:")
	assert.Contains(t, out, "1 applied, 0 failed")
	assert.Equal(t, []string{"next_action"}, server.Labels("draft"))
}

func TestRun_MissingMarkersIsConfigError(t *testing.T) {
	t.Setenv(config.EnvAPIToken, "token")

	_, err := executeCommand(t, newRunCmd(), "--config-path", t.TempDir(), "--once")
	require.Error(t, err)
	assert.Equal(t, ExitCodeConfigError, getExitCode(err))
}
