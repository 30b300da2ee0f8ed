package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
)

// SyncServerConfig configures the mock Todoist Sync API server.
type SyncServerConfig struct {
	// APIToken is the bearer token the server accepts. Defaults to "test-token".
	APIToken string

	// Seed is the initial account state.
	Seed hierarchy.Snapshot

	// FailItemUpdates maps item ids to the error returned for item_update.
	FailItemUpdates map[string]string

	// FailLabelAdds maps label names to the error returned for label_add.
	FailLabelAdds map[string]string

	// Debug enables debug logging
	Debug bool
}

// SyncServer is an in-memory Todoist Sync API. It keeps a revision per
// resource so that incremental syncs only return what changed.
type SyncServer struct {
	config     SyncServerConfig
	httpServer *http.Server
	listener   net.Listener
	port       int
	running    bool
	mu         sync.RWMutex

	rev      int
	projects map[string]*syncProject
	sections map[string]*syncSection
	items    map[string]*syncItem
	labels   map[string]*syncLabel

	// failNext makes the next n requests fail with failStatus.
	failNext   int
	failStatus int

	requests int
	commands []string
}

type syncProject struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ParentID   string `json:"parent_id,omitempty"`
	ChildOrder int    `json:"child_order"`
	IsDeleted  bool   `json:"is_deleted"`
	IsArchived bool   `json:"is_archived"`
	rev        int
}

type syncSection struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ProjectID    string `json:"project_id"`
	SectionOrder int    `json:"section_order"`
	IsDeleted    bool   `json:"is_deleted"`
	IsArchived   bool   `json:"is_archived"`
	rev          int
}

type syncItem struct {
	ID         string   `json:"id"`
	Content    string   `json:"content"`
	ProjectID  string   `json:"project_id"`
	SectionID  *string  `json:"section_id"`
	ParentID   *string  `json:"parent_id"`
	ChildOrder int      `json:"child_order"`
	Labels     []string `json:"labels"`
	Checked    bool     `json:"checked"`
	IsDeleted  bool     `json:"is_deleted"`
	rev        int
}

type syncLabel struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"is_deleted"`
	rev       int
}

type syncCommand struct {
	Type   string          `json:"type"`
	UUID   string          `json:"uuid"`
	TempID string          `json:"temp_id"`
	Args   json.RawMessage `json:"args"`
}

type syncRequest struct {
	SyncToken     string        `json:"sync_token"`
	ResourceTypes []string      `json:"resource_types"`
	Commands      []syncCommand `json:"commands"`
}

// NewSyncServer creates a new mock Sync API server seeded with config.Seed.
func NewSyncServer(config SyncServerConfig) *SyncServer {
	if config.APIToken == "" {
		config.APIToken = "test-token"
	}

	s := &SyncServer{
		config:   config,
		projects: make(map[string]*syncProject),
		sections: make(map[string]*syncSection),
		items:    make(map[string]*syncItem),
		labels:   make(map[string]*syncLabel),
	}

	s.rev = 1
	for _, p := range config.Seed.Projects {
		s.projects[p.ID] = &syncProject{ID: p.ID, Name: p.Name, ParentID: p.ParentID, ChildOrder: p.Order, rev: s.rev}
	}
	for _, sec := range config.Seed.Sections {
		s.sections[sec.ID] = &syncSection{ID: sec.ID, Name: sec.Name, ProjectID: sec.ProjectID, SectionOrder: sec.Order, rev: s.rev}
	}
	for _, t := range config.Seed.Tasks {
		s.items[t.ID] = &syncItem{
			ID:         t.ID,
			Content:    t.Content,
			ProjectID:  t.ProjectID,
			SectionID:  nullable(t.SectionID),
			ParentID:   nullable(t.ParentID),
			ChildOrder: t.Order,
			Labels:     append([]string{}, t.Labels...),
			Checked:    t.Completed,
			rev:        s.rev,
		}
	}
	for i, name := range config.Seed.Labels {
		id := fmt.Sprintf("label-%d", i+1)
		s.labels[id] = &syncLabel{ID: id, Name: name, rev: s.rev}
	}

	return s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Start starts the server on a random available port
func (s *SyncServer) Start(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return s.port, nil
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("failed to listen: %w", err)
	}

	s.listener = listener
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/sync/v9/sync", s.handleSync)

	s.httpServer = &http.Server{
		Handler:  mux,
		ErrorLog: log.New(io.Discard, "", 0),
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			if s.config.Debug {
				fmt.Fprintf(os.Stderr, "Mock sync server error: %v\n", err)
			}
		}
	}()

	s.running = true

	if s.config.Debug {
		fmt.Fprintf(os.Stderr, "Mock sync server started on port %d\n", s.port)
	}

	return s.port, nil
}

// Stop stops the server
func (s *SyncServer) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	err := s.httpServer.Shutdown(ctx)
	s.running = false
	return err
}

// SyncURL returns the endpoint clients should post to.
func (s *SyncServer) SyncURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("http://127.0.0.1:%d/sync/v9/sync", s.port)
}

// APIToken returns the accepted bearer token.
func (s *SyncServer) APIToken() string {
	return s.config.APIToken
}

// Labels returns the current labels of an item.
func (s *SyncServer) Labels(itemID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if it, ok := s.items[itemID]; ok {
		return append([]string{}, it.Labels...)
	}
	return nil
}

// PersonalLabels returns the names of all personal labels, sorted.
func (s *SyncServer) PersonalLabels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.labels))
	for _, l := range s.labels {
		if !l.IsDeleted {
			names = append(names, l.Name)
		}
	}
	sort.Strings(names)
	return names
}

// CompleteItem checks off an item.
func (s *SyncServer) CompleteItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it, ok := s.items[itemID]; ok {
		s.rev++
		it.Checked = true
		it.rev = s.rev
	}
}

// RenameProject changes a project's name, for example to add or drop a marker.
func (s *SyncServer) RenameProject(projectID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[projectID]; ok {
		s.rev++
		p.Name = name
		p.rev = s.rev
	}
}

// ArchiveProject archives a project together with its sub-projects and
// their sections. Items of archived projects drop out of full syncs.
func (s *SyncServer) ArchiveProject(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[projectID]; !ok {
		return
	}
	s.rev++
	archived := map[string]bool{projectID: true}
	for changed := true; changed; {
		changed = false
		for _, p := range s.projects {
			if !archived[p.ID] && archived[p.ParentID] {
				archived[p.ID] = true
				changed = true
			}
		}
	}
	for id := range archived {
		p := s.projects[id]
		p.IsArchived = true
		p.rev = s.rev
	}
	for _, sec := range s.sections {
		if archived[sec.ProjectID] {
			sec.IsArchived = true
			sec.rev = s.rev
		}
	}
}

// FailNext makes the next n requests fail with the given HTTP status.
func (s *SyncServer) FailNext(n, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = n
	s.failStatus = status
}

// Requests returns the number of requests served.
func (s *SyncServer) Requests() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.requests
}

// Commands returns the types of every command received, in order.
func (s *SyncServer) Commands() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.commands...)
}

func (s *SyncServer) handleSync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if ExtractBearerToken(r.Header.Get("Authorization")) != s.config.APIToken {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"error": "Unauthorized", "error_code": 401})
		return
	}

	var req syncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid JSON body", "error_code": 400})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests++
	if s.failNext > 0 {
		s.failNext--
		writeJSON(w, s.failStatus, map[string]interface{}{"error": "Service unavailable", "error_code": s.failStatus})
		return
	}

	since := 0
	if req.SyncToken != "*" {
		n, err := strconv.Atoi(req.SyncToken)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid sync token", "error_code": 35})
			return
		}
		since = n
	}

	status := make(map[string]interface{}, len(req.Commands))
	tempIDs := make(map[string]string)
	for _, cmd := range req.Commands {
		s.commands = append(s.commands, cmd.Type)
		status[cmd.UUID] = s.runCommand(cmd, tempIDs)
	}

	resp := map[string]interface{}{
		"sync_token":      strconv.Itoa(s.rev),
		"full_sync":       since == 0,
		"sync_status":     status,
		"temp_id_mapping": tempIDs,
	}
	for _, rt := range req.ResourceTypes {
		switch rt {
		case "projects":
			resp["projects"] = s.changedProjects(since)
		case "sections":
			resp["sections"] = s.changedSections(since)
		case "items":
			resp["items"] = s.changedItems(since)
		case "labels":
			resp["labels"] = s.changedLabels(since)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *SyncServer) runCommand(cmd syncCommand, tempIDs map[string]string) interface{} {
	switch cmd.Type {
	case "item_update":
		var args struct {
			ID     string   `json:"id"`
			Labels []string `json:"labels"`
		}
		if err := json.Unmarshal(cmd.Args, &args); err != nil {
			return commandError(20, "Invalid argument value")
		}
		if msg, ok := s.config.FailItemUpdates[args.ID]; ok {
			return commandError(22, msg)
		}
		it, ok := s.items[args.ID]
		if !ok || it.IsDeleted {
			return commandError(22, "Item not found")
		}
		s.rev++
		it.Labels = append([]string{}, args.Labels...)
		it.rev = s.rev
		return "ok"

	case "label_add":
		var args struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(cmd.Args, &args); err != nil || strings.TrimSpace(args.Name) == "" {
			return commandError(20, "Invalid argument value")
		}
		if msg, ok := s.config.FailLabelAdds[args.Name]; ok {
			return commandError(48, msg)
		}
		s.rev++
		id := fmt.Sprintf("label-%d", s.rev)
		s.labels[id] = &syncLabel{ID: id, Name: args.Name, rev: s.rev}
		if cmd.TempID != "" {
			tempIDs[cmd.TempID] = id
		}
		return "ok"

	default:
		return commandError(24, "Unknown command")
	}
}

func commandError(code int, msg string) map[string]interface{} {
	return map[string]interface{}{"error_code": code, "error": msg}
}

func (s *SyncServer) changedProjects(since int) []*syncProject {
	out := []*syncProject{}
	for _, p := range s.projects {
		if p.rev > since && !(since == 0 && (p.IsDeleted || p.IsArchived)) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *SyncServer) changedSections(since int) []*syncSection {
	out := []*syncSection{}
	for _, sec := range s.sections {
		if sec.rev > since && !(since == 0 && (sec.IsDeleted || sec.IsArchived)) {
			out = append(out, sec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// changedItems leaves checked items and items of archived projects out of a
// full sync, like the real API.
func (s *SyncServer) changedItems(since int) []*syncItem {
	out := []*syncItem{}
	for _, it := range s.items {
		hidden := it.IsDeleted || it.Checked || s.projects[it.ProjectID] == nil || s.projects[it.ProjectID].IsArchived
		if it.rev > since && !(since == 0 && hidden) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *SyncServer) changedLabels(since int) []*syncLabel {
	out := []*syncLabel{}
	for _, l := range s.labels {
		if l.rev > since && !(since == 0 && l.IsDeleted) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// ExtractBearerToken extracts the token from an Authorization header value.
func ExtractBearerToken(authHeader string) string {
	const prefix = "Bearer "
	if len(authHeader) > len(prefix) && strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return authHeader[len(prefix):]
	}
	return ""
}
