// Package todoist is a client for the Todoist Sync API.
//
// The client reads projects, sections, items and personal labels in one
// request and keeps the sync token between calls. When an incremental sync
// reports no changes, FetchHierarchy returns hierarchy.ErrUnchanged so the
// caller can skip the cycle. Any change triggers a full resync so that the
// returned snapshot is always complete.
//
// Writes go through Sync API commands: item_update replaces the label list of
// one task and label_add creates a personal label. Every command carries a
// fresh UUID and its outcome is read from the sync_status map of the response.
//
// Authentication uses a personal API token sent as an OAuth2 bearer token.
package todoist
