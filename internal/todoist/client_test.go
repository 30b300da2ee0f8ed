package todoist_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	"github.com/ShayHill/todoist-bot/internal/testing/fixtures"
	"github.com/ShayHill/todoist-bot/internal/testing/mock"
	"github.com/ShayHill/todoist-bot/internal/todoist"
)

func startServer(t *testing.T, seed hierarchy.Snapshot) (*mock.SyncServer, *todoist.Client) {
	t.Helper()
	ctx := context.Background()

	server := mock.NewSyncServer(mock.SyncServerConfig{Seed: seed})
	_, err := server.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Stop(ctx) })

	client, err := todoist.NewClient(todoist.Config{APIToken: server.APIToken(), SyncURL: server.SyncURL()})
	require.NoError(t, err)
	return server, client
}

func workSnapshot() hierarchy.Snapshot {
	return fixtures.NewSnapshot().
		Project("work", "Work").
		Section("plan", "work", "Plan -n").
		Task("draft", "work", "Draft", fixtures.InSection("plan")).
		Task("review", "work", "Review", fixtures.InSection("plan"), fixtures.WithLabels("office")).
		PersonalLabels("office").
		Snapshot()
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := todoist.NewClient(todoist.Config{APIToken: "  "})
	assert.Error(t, err)
}

func TestFetchHierarchy_FullThenUnchanged(t *testing.T) {
	_, client := startServer(t, workSnapshot())
	ctx := context.Background()

	assert.Equal(t, "*", client.SyncToken())

	snap, err := client.FetchHierarchy(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Projects, 1)
	assert.Len(t, snap.Sections, 1)
	assert.Len(t, snap.Tasks, 2)
	assert.Equal(t, []string{"office"}, snap.Labels)
	assert.NotEqual(t, "*", client.SyncToken())

	f, err := hierarchy.Build(snap)
	require.NoError(t, err)
	review, ok := f.Task("review")
	require.True(t, ok)
	assert.Equal(t, "plan", review.ParentID)
	assert.Equal(t, []string{"office"}, review.Labels)

	_, err = client.FetchHierarchy(ctx)
	assert.ErrorIs(t, err, hierarchy.ErrUnchanged)
}

func TestFetchHierarchy_ChangeTriggersFullSync(t *testing.T) {
	server, client := startServer(t, workSnapshot())
	ctx := context.Background()

	_, err := client.FetchHierarchy(ctx)
	require.NoError(t, err)

	server.RenameProject("work", "Work -a")

	snap, err := client.FetchHierarchy(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "Work -a", snap.Projects[0].Name)
	assert.Len(t, snap.Tasks, 2, "a change must return the complete state, not a delta")
}

func TestFetchHierarchy_CompletedItemsLeaveFullSync(t *testing.T) {
	server, client := startServer(t, workSnapshot())
	ctx := context.Background()

	_, err := client.FetchHierarchy(ctx)
	require.NoError(t, err)

	server.CompleteItem("draft")

	snap, err := client.FetchHierarchy(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "review", snap.Tasks[0].ID)
}

func TestFetchHierarchy_ArchivedProjectOmitted(t *testing.T) {
	seed := fixtures.NewSnapshot().
		Project("home", "Home").
		Task("h", "home", "H").
		Project("old", "Old").
		SubProject("older", "old", "Older").
		Section("s", "older", "S").
		Task("t", "older", "T", fixtures.InSection("s")).
		Task("t1", "older", "T1", fixtures.Under("t")).
		Snapshot()
	server, client := startServer(t, seed)

	server.ArchiveProject("old")

	snap, err := client.FetchHierarchy(context.Background())
	require.NoError(t, err)

	_, err = hierarchy.Build(snap)
	require.NoError(t, err)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, "home", snap.Projects[0].ID)
	assert.Empty(t, snap.Sections)
	require.Len(t, snap.Tasks, 1)
	assert.Equal(t, "h", snap.Tasks[0].ID)
}

func TestFetchHierarchy_Invalidate(t *testing.T) {
	server, client := startServer(t, workSnapshot())
	ctx := context.Background()

	_, err := client.FetchHierarchy(ctx)
	require.NoError(t, err)
	before := server.Requests()

	client.Invalidate()
	assert.Equal(t, "*", client.SyncToken())

	_, err = client.FetchHierarchy(ctx)
	require.NoError(t, err)
	assert.Equal(t, before+1, server.Requests(), "an invalidated client goes straight to a full sync")
}

func TestFetchHierarchy_ServerError(t *testing.T) {
	server, client := startServer(t, workSnapshot())
	server.FailNext(1, http.StatusServiceUnavailable)

	_, err := client.FetchHierarchy(context.Background())
	require.Error(t, err)

	var apiErr *todoist.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "*", client.SyncToken(), "a failed read keeps the token")
}

func TestFetchHierarchy_Unauthorized(t *testing.T) {
	server, _ := startServer(t, workSnapshot())

	client, err := todoist.NewClient(todoist.Config{APIToken: "wrong", SyncURL: server.SyncURL()})
	require.NoError(t, err)

	_, err = client.FetchHierarchy(context.Background())
	assert.True(t, todoist.IsUnauthorized(err))
}

func TestApplyLabelUpdate(t *testing.T) {
	server, client := startServer(t, workSnapshot())
	ctx := context.Background()

	require.NoError(t, client.ApplyLabelUpdate(ctx, "review", []string{"office", "next_action"}))
	assert.Equal(t, []string{"office", "next_action"}, server.Labels("review"))

	require.NoError(t, client.ApplyLabelUpdate(ctx, "review", nil))
	assert.Empty(t, server.Labels("review"))

	assert.Equal(t, []string{"item_update", "item_update"}, server.Commands())
}

func TestApplyLabelUpdate_Rejected(t *testing.T) {
	_, client := startServer(t, workSnapshot())

	err := client.ApplyLabelUpdate(context.Background(), "missing", []string{"next_action"})
	require.Error(t, err)

	var cmdErr *todoist.CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "item_update", cmdErr.Command)
	assert.Equal(t, "Item not found", cmdErr.Message)
	assert.Equal(t, 22, cmdErr.Code)
}

func TestApplyLabelUpdate_DoesNotHideRemoteChanges(t *testing.T) {
	server, client := startServer(t, workSnapshot())
	ctx := context.Background()

	_, err := client.FetchHierarchy(ctx)
	require.NoError(t, err)

	require.NoError(t, client.ApplyLabelUpdate(ctx, "draft", []string{"next_action"}))
	assert.Equal(t, []string{"next_action"}, server.Labels("draft"))

	snap, err := client.FetchHierarchy(ctx)
	require.NoError(t, err, "the bot's own write shows up as a change")
	for _, task := range snap.Tasks {
		if task.ID == "draft" {
			assert.Equal(t, []string{"next_action"}, task.Labels)
		}
	}
}

func TestCreateLabel(t *testing.T) {
	server, client := startServer(t, workSnapshot())
	ctx := context.Background()

	require.NoError(t, client.CreateLabel(ctx, "next_action"))
	assert.Equal(t, []string{"next_action", "office"}, server.PersonalLabels())
}

func TestCreateLabel_Rejected(t *testing.T) {
	ctx := context.Background()
	server := mock.NewSyncServer(mock.SyncServerConfig{
		Seed:          workSnapshot(),
		FailLabelAdds: map[string]string{"next_action": "Maximum number of labels reached"},
	})
	_, err := server.Start(ctx)
	require.NoError(t, err)
	defer server.Stop(ctx)

	client, err := todoist.NewClient(todoist.Config{APIToken: server.APIToken(), SyncURL: server.SyncURL()})
	require.NoError(t, err)

	err = client.CreateLabel(ctx, "next_action")
	assert.ErrorContains(t, err, "Maximum number of labels reached")
}
