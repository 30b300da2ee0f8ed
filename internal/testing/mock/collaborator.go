package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
)

// Collaborator is an in-memory Todoist account. Like the real client it
// reports hierarchy.ErrUnchanged when nothing changed since the last fetch,
// and a label write counts as a change.
type Collaborator struct {
	mu sync.Mutex

	snap  hierarchy.Snapshot
	dirty bool

	fetchErrs []error
	failTasks map[string]error
	failAdds  map[string]error

	fetches       int
	updates       int
	invalidations int
	created       []string

	// onFetch runs before each fetch, outside the lock.
	onFetch func(n int)
}

// NewCollaborator creates a collaborator holding a copy of seed.
func NewCollaborator(seed hierarchy.Snapshot) *Collaborator {
	c := &Collaborator{
		dirty:     true,
		failTasks: make(map[string]error),
		failAdds:  make(map[string]error),
	}
	c.snap = copySnapshot(seed)
	return c
}

// FetchHierarchy returns a copy of the current state.
func (c *Collaborator) FetchHierarchy(ctx context.Context) (hierarchy.Snapshot, error) {
	c.mu.Lock()
	c.fetches++
	n := c.fetches
	hook := c.onFetch
	c.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	if err := ctx.Err(); err != nil {
		return hierarchy.Snapshot{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.fetchErrs) > 0 {
		err := c.fetchErrs[0]
		c.fetchErrs = c.fetchErrs[1:]
		return hierarchy.Snapshot{}, err
	}
	if !c.dirty {
		return hierarchy.Snapshot{}, hierarchy.ErrUnchanged
	}
	c.dirty = false
	return copySnapshot(c.snap), nil
}

// ApplyLabelUpdate replaces the labels of a task.
func (c *Collaborator) ApplyLabelUpdate(ctx context.Context, taskID string, labels []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err, ok := c.failTasks[taskID]; ok {
		return err
	}
	for i := range c.snap.Tasks {
		if c.snap.Tasks[i].ID == taskID {
			c.snap.Tasks[i].Labels = append([]string(nil), labels...)
			c.updates++
			c.dirty = true
			return nil
		}
	}
	return errors.New("task not found")
}

// CreateLabel adds a personal label.
func (c *Collaborator) CreateLabel(ctx context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err, ok := c.failAdds[name]; ok {
		return err
	}
	c.snap.Labels = append(c.snap.Labels, name)
	c.created = append(c.created, name)
	c.dirty = true
	return nil
}

// Invalidate makes the next fetch return the full state.
func (c *Collaborator) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.dirty = true
}

// Mutate changes the account state as a user would.
func (c *Collaborator) Mutate(fn func(s *hierarchy.Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.snap)
	c.dirty = true
}

// CompleteTask checks off a task.
func (c *Collaborator) CompleteTask(taskID string) {
	c.Mutate(func(s *hierarchy.Snapshot) {
		for i := range s.Tasks {
			if s.Tasks[i].ID == taskID {
				s.Tasks[i].Completed = true
			}
		}
	})
}

// FailFetch queues errors returned by the next fetches, in order.
func (c *Collaborator) FailFetch(errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchErrs = append(c.fetchErrs, errs...)
}

// FailTask makes every update of taskID fail with err.
func (c *Collaborator) FailTask(taskID string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failTasks[taskID] = err
}

// HealTask lets updates of taskID succeed again.
func (c *Collaborator) HealTask(taskID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failTasks, taskID)
}

// FailLabel makes creating the named label fail with err.
func (c *Collaborator) FailLabel(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failAdds[name] = err
}

// OnFetch registers a hook called with the fetch count before each fetch.
func (c *Collaborator) OnFetch(fn func(n int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFetch = fn
}

// Labels returns the current labels of a task.
func (c *Collaborator) Labels(taskID string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.snap.Tasks {
		if t.ID == taskID {
			return append([]string(nil), t.Labels...)
		}
	}
	return nil
}

// Fetches returns the number of fetch calls.
func (c *Collaborator) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

// Updates returns the number of accepted label updates.
func (c *Collaborator) Updates() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates
}

// Invalidations returns the number of Invalidate calls.
func (c *Collaborator) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// CreatedLabels returns the labels created through CreateLabel.
func (c *Collaborator) CreatedLabels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.created...)
}

func copySnapshot(s hierarchy.Snapshot) hierarchy.Snapshot {
	out := hierarchy.Snapshot{
		Projects: append([]hierarchy.ProjectRecord(nil), s.Projects...),
		Sections: append([]hierarchy.SectionRecord(nil), s.Sections...),
		Tasks:    make([]hierarchy.TaskRecord, len(s.Tasks)),
		Labels:   append([]string(nil), s.Labels...),
	}
	for i, t := range s.Tasks {
		t.Labels = append([]string(nil), t.Labels...)
		out.Tasks[i] = t
	}
	return out
}
