package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for a single Sync API request.
const DefaultHTTPTimeout = 30 * time.Second

// maxErrorBody bounds how much of an error response is kept in an APIError.
const maxErrorBody = 512

// Config holds the settings of a Client.
type Config struct {
	// APIToken is the personal API token of the account.
	APIToken string

	// SyncURL overrides DefaultSyncURL.
	SyncURL string

	// HTTPClient is the base client wrapped with bearer authentication.
	// Defaults to a client with DefaultHTTPTimeout.
	HTTPClient *http.Client
}

// Client talks to the Todoist Sync API.
//
// A Client is safe for concurrent use. Reads and writes share the HTTP client
// but only reads advance the stored sync token.
type Client struct {
	syncURL    string
	httpClient *http.Client

	mu        sync.Mutex
	syncToken string
}

// NewClient creates a Sync API client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, errors.New("todoist API token is required")
	}
	if cfg.SyncURL == "" {
		cfg.SyncURL = DefaultSyncURL
	}
	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: DefaultHTTPTimeout}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIToken, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = base.Timeout

	return &Client{
		syncURL:    cfg.SyncURL,
		httpClient: httpClient,
		syncToken:  fullSyncToken,
	}, nil
}

// SyncToken returns the token the next read will send.
func (c *Client) SyncToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncToken
}

// Invalidate forgets the sync token so the next read is a full sync.
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncToken = fullSyncToken
}

// FetchHierarchy returns the full current state of the account.
//
// After the first call it asks for changes since the stored token. When there
// are none it returns hierarchy.ErrUnchanged; otherwise it performs a full sync.
func (c *Client) FetchHierarchy(ctx context.Context) (hierarchy.Snapshot, error) {
	token := c.SyncToken()

	if token != fullSyncToken {
		resp, err := c.post(ctx, syncRequest{SyncToken: token, ResourceTypes: ResourceTypes})
		if err != nil {
			return hierarchy.Snapshot{}, fmt.Errorf("incremental sync: %w", err)
		}
		if resp.FullSync {
			// The server may answer a stale token with a full sync.
			c.storeToken(resp.SyncToken)
			return toSnapshot(resp), nil
		}
		if resp.empty() {
			c.storeToken(resp.SyncToken)
			logging.Debug("Todoist", "No changes since last sync")
			return hierarchy.Snapshot{}, hierarchy.ErrUnchanged
		}
		logging.Debug("Todoist", "Changes found, refreshing all data")
	}

	resp, err := c.post(ctx, syncRequest{SyncToken: fullSyncToken, ResourceTypes: ResourceTypes})
	if err != nil {
		return hierarchy.Snapshot{}, fmt.Errorf("full sync: %w", err)
	}
	c.storeToken(resp.SyncToken)
	return toSnapshot(resp), nil
}

func (c *Client) storeToken(token string) {
	if token == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncToken = token
}

func (c *Client) post(ctx context.Context, body syncRequest) (*syncResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.syncURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create sync request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach todoist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out syncResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode sync response: %w", err)
	}
	return &out, nil
}

// toSnapshot converts a full sync response. Deleted and archived resources are
// dropped together with everything that hangs under them; checked items stay
// as completed tasks.
func toSnapshot(resp *syncResponse) hierarchy.Snapshot {
	var s hierarchy.Snapshot

	droppedProjects := make(map[string]bool)
	for _, p := range resp.Projects {
		if p.IsDeleted || p.IsArchived {
			droppedProjects[p.ID] = true
		}
	}
	propagate(droppedProjects, len(resp.Projects), func(drop func(id, parent string)) {
		for _, p := range resp.Projects {
			drop(p.ID, p.ParentID)
		}
	})

	droppedSections := make(map[string]bool)
	for _, sec := range resp.Sections {
		if sec.IsDeleted || sec.IsArchived || droppedProjects[sec.ProjectID] {
			droppedSections[sec.ID] = true
		}
	}

	droppedItems := make(map[string]bool)
	for _, it := range resp.Items {
		if it.IsDeleted || droppedProjects[it.ProjectID] || droppedSections[it.SectionID] {
			droppedItems[it.ID] = true
		}
	}
	propagate(droppedItems, len(resp.Items), func(drop func(id, parent string)) {
		for _, it := range resp.Items {
			drop(it.ID, it.ParentID)
		}
	})

	for _, p := range resp.Projects {
		if droppedProjects[p.ID] {
			continue
		}
		s.Projects = append(s.Projects, hierarchy.ProjectRecord{
			ID:       p.ID,
			Name:     p.Name,
			ParentID: p.ParentID,
			Order:    p.ChildOrder,
		})
	}

	for _, sec := range resp.Sections {
		if droppedSections[sec.ID] {
			continue
		}
		s.Sections = append(s.Sections, hierarchy.SectionRecord{
			ID:        sec.ID,
			Name:      sec.Name,
			ProjectID: sec.ProjectID,
			Order:     sec.SectionOrder,
		})
	}

	for _, it := range resp.Items {
		if droppedItems[it.ID] {
			continue
		}
		s.Tasks = append(s.Tasks, hierarchy.TaskRecord{
			ID:        it.ID,
			Content:   it.Content,
			ProjectID: it.ProjectID,
			SectionID: it.SectionID,
			ParentID:  it.ParentID,
			Order:     it.ChildOrder,
			Labels:    append([]string(nil), it.Labels...),
			Completed: it.Checked,
		})
	}

	for _, l := range resp.Labels {
		if l.IsDeleted {
			continue
		}
		s.Labels = append(s.Labels, l.Name)
	}

	return s
}

// propagate extends dropped to every descendant. each calls drop once per
// record; it runs until a pass drops nothing new.
func propagate(dropped map[string]bool, n int, each func(drop func(id, parent string))) {
	for pass := 0; pass <= n; pass++ {
		changed := false
		each(func(id, parent string) {
			if parent != "" && dropped[parent] && !dropped[id] {
				dropped[id] = true
				changed = true
			}
		})
		if !changed {
			return
		}
	}
}
