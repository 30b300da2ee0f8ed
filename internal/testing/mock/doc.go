// Package mock provides test doubles for the Todoist Sync API.
//
// SyncServer is an in-memory Sync API endpoint served over HTTP. It keeps a
// revision per resource so incremental syncs return only what changed, and
// it applies item_update and label_add commands to its state. Tests drive
// remote changes with helpers such as CompleteItem and RenameProject and
// inspect the result with Labels and PersonalLabels.
//
// Usage:
//
//	server := mock.NewSyncServer(mock.SyncServerConfig{Seed: snapshot})
//	if _, err := server.Start(ctx); err != nil {
//	    t.Fatal(err)
//	}
//	defer server.Stop(ctx)
//
//	client, _ := todoist.NewClient(todoist.Config{
//	    APIToken: server.APIToken(),
//	    SyncURL:  server.SyncURL(),
//	})
//
// Clock is a manual clock: tests decide how long a cycle takes and when the
// sleep between cycles ends.
package mock
