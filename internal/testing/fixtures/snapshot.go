package fixtures

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ShayHill/todoist-bot/internal/hierarchy"
)

// Builder accumulates projects, sections and tasks for a snapshot.
type Builder struct {
	snap  hierarchy.Snapshot
	order int
}

// TaskOption adjusts a task record before it is added.
type TaskOption func(*hierarchy.TaskRecord)

// InSection places a root task in a section.
func InSection(sectionID string) TaskOption {
	return func(r *hierarchy.TaskRecord) { r.SectionID = sectionID }
}

// Under makes the task a sub-task of parentID.
func Under(parentID string) TaskOption {
	return func(r *hierarchy.TaskRecord) { r.ParentID = parentID }
}

// WithLabels sets the labels currently on the task.
func WithLabels(labels ...string) TaskOption {
	return func(r *hierarchy.TaskRecord) { r.Labels = labels }
}

// Completed marks the task as checked off.
func Completed() TaskOption {
	return func(r *hierarchy.TaskRecord) { r.Completed = true }
}

// NewSnapshot returns an empty builder.
func NewSnapshot() *Builder {
	return &Builder{}
}

func (b *Builder) next() int {
	b.order++
	return b.order
}

// Project adds a root project.
func (b *Builder) Project(id, name string) *Builder {
	b.snap.Projects = append(b.snap.Projects, hierarchy.ProjectRecord{ID: id, Name: name, Order: b.next()})
	return b
}

// SubProject adds a project nested under parentID.
func (b *Builder) SubProject(id, parentID, name string) *Builder {
	b.snap.Projects = append(b.snap.Projects, hierarchy.ProjectRecord{ID: id, Name: name, ParentID: parentID, Order: b.next()})
	return b
}

// Section adds a section to projectID.
func (b *Builder) Section(id, projectID, name string) *Builder {
	b.snap.Sections = append(b.snap.Sections, hierarchy.SectionRecord{ID: id, Name: name, ProjectID: projectID, Order: b.next()})
	return b
}

// Task adds a task to projectID. Options place it in a section or under a parent task.
func (b *Builder) Task(id, projectID, content string, opts ...TaskOption) *Builder {
	rec := hierarchy.TaskRecord{ID: id, Content: content, ProjectID: projectID, Order: b.next()}
	for _, opt := range opts {
		opt(&rec)
	}
	b.snap.Tasks = append(b.snap.Tasks, rec)
	return b
}

// PersonalLabels sets the account's existing personal label names.
func (b *Builder) PersonalLabels(names ...string) *Builder {
	b.snap.Labels = names
	return b
}

// Snapshot returns a copy of the accumulated snapshot.
func (b *Builder) Snapshot() hierarchy.Snapshot {
	s := b.snap
	s.Projects = append([]hierarchy.ProjectRecord(nil), b.snap.Projects...)
	s.Sections = append([]hierarchy.SectionRecord(nil), b.snap.Sections...)
	s.Tasks = make([]hierarchy.TaskRecord, len(b.snap.Tasks))
	for i, t := range b.snap.Tasks {
		t.Labels = append([]string(nil), t.Labels...)
		s.Tasks[i] = t
	}
	s.Labels = append([]string(nil), b.snap.Labels...)
	return s
}

// Forest builds the snapshot into a forest and fails the test on error.
func (b *Builder) Forest(t testing.TB) *hierarchy.Forest {
	t.Helper()
	f, err := hierarchy.Build(b.Snapshot())
	require.NoError(t, err)
	return f
}

// Node looks up a node of any kind by id and fails the test if it is missing.
func Node(t testing.TB, f *hierarchy.Forest, id string) *hierarchy.Node {
	t.Helper()
	for _, n := range f.Nodes() {
		if n.ID == id {
			return n
		}
	}
	require.Failf(t, "node not found", "no node with id %q", id)
	return nil
}

// IDs returns the ids of nodes in order.
func IDs(nodes []*hierarchy.Node) []string {
	ids := make([]string, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	return ids
}
