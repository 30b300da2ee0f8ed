package todoist

import (
	"encoding/json"
)

// DefaultSyncURL is the Sync API endpoint.
const DefaultSyncURL = "https://api.todoist.com/sync/v9/sync"

// fullSyncToken requests the complete state of the account.
const fullSyncToken = "*"

// ResourceTypes are the resources requested on every read.
var ResourceTypes = []string{"items", "labels", "projects", "sections"}

// Project is a project as returned by the Sync API.
type Project struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id"`
	ChildOrder int    `json:"child_order"`
	IsDeleted  bool   `json:"is_deleted"`
	IsArchived bool   `json:"is_archived"`
}

// Section is a section as returned by the Sync API.
type Section struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProjectID    string `json:"project_id"`
	SectionOrder int    `json:"section_order"`
	IsDeleted    bool   `json:"is_deleted"`
	IsArchived   bool   `json:"is_archived"`
}

// Item is a task as returned by the Sync API.
type Item struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	ProjectID  string   `json:"project_id"`
	SectionID  string   `json:"section_id"`
	ParentID   string   `json:"parent_id"`
	ChildOrder int      `json:"child_order"`
	Labels     []string `json:"labels"`
	Checked    bool     `json:"checked"`
	IsDeleted  bool     `json:"is_deleted"`
}

// Label is a personal label as returned by the Sync API.
type Label struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"is_deleted"`
}

type syncRequest struct {
	SyncToken     string    `json:"sync_token"`
	ResourceTypes []string  `json:"resource_types"`
	Commands      []command `json:"commands,omitempty"`
}

type command struct {
	Type   string      `json:"type"`
	UUID   string      `json:"uuid"`
	TempID string      `json:"temp_id,omitempty"`
	Args   interface{} `json:"args"`
}

type itemUpdateArgs struct {
	ID     string   `json:"id"`
	Labels []string `json:"labels"`
}

type labelAddArgs struct {
	Name string `json:"name"`
}

type syncResponse struct {
	SyncToken     string                     `json:"sync_token"`
	FullSync      bool                       `json:"full_sync"`
	Items         []Item                     `json:"items"`
	Labels        []Label                    `json:"labels"`
	Projects      []Project                  `json:"projects"`
	Sections      []Section                  `json:"sections"`
	SyncStatus    map[string]json.RawMessage `json:"sync_status"`
	TempIDMapping map[string]string          `json:"temp_id_mapping"`
}

// empty reports whether the response carries no resources at all.
func (r *syncResponse) empty() bool {
	return len(r.Items) == 0 && len(r.Labels) == 0 && len(r.Projects) == 0 && len(r.Sections) == 0
}

type commandFailure struct {
	ErrorCode int    `json:"error_code"`
	Error     string `json:"error"`
}
