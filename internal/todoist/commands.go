package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	commandItemUpdate = "item_update"
	commandLabelAdd   = "label_add"
)

// ApplyLabelUpdate replaces the full label list of one task.
func (c *Client) ApplyLabelUpdate(ctx context.Context, taskID string, labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	return c.execute(ctx, command{
		Type: commandItemUpdate,
		UUID: uuid.NewString(),
		Args: itemUpdateArgs{ID: taskID, Labels: labels},
	})
}

// CreateLabel adds a personal label.
func (c *Client) CreateLabel(ctx context.Context, name string) error {
	return c.execute(ctx, command{
		Type:   commandLabelAdd,
		UUID:   uuid.NewString(),
		TempID: uuid.NewString(),
		Args:   labelAddArgs{Name: name},
	})
}

// execute sends a single command and checks its sync_status entry. The sync
// token in the response is ignored so that the next read still sees changes
// made by others in the meantime.
func (c *Client) execute(ctx context.Context, cmd command) error {
	resp, err := c.post(ctx, syncRequest{
		SyncToken:     fullSyncToken,
		ResourceTypes: []string{},
		Commands:      []command{cmd},
	})
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Type, err)
	}
	return commandStatus(cmd, resp.SyncStatus)
}

func commandStatus(cmd command, statuses map[string]json.RawMessage) error {
	raw, ok := statuses[cmd.UUID]
	if !ok {
		return &CommandError{Command: cmd.Type, UUID: cmd.UUID, Message: "no status in response"}
	}

	var status string
	if err := json.Unmarshal(raw, &status); err == nil {
		if status == "ok" {
			return nil
		}
		return &CommandError{Command: cmd.Type, UUID: cmd.UUID, Message: status}
	}

	var failure commandFailure
	if err := json.Unmarshal(bytes.TrimSpace(raw), &failure); err != nil {
		return &CommandError{Command: cmd.Type, UUID: cmd.UUID, Message: fmt.Sprintf("unreadable status %s", string(raw))}
	}
	return &CommandError{Command: cmd.Type, UUID: cmd.UUID, Code: failure.ErrorCode, Message: failure.Error}
}
