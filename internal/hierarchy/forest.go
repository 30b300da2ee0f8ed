package hierarchy

import (
	"sort"
)

// ProjectRecord is a project as reported by the API.
type ProjectRecord struct {
	ID       string
	Name     string
	ParentID string
	Order    int
}

// SectionRecord is a section as reported by the API. Sections always belong to a project.
type SectionRecord struct {
	ID        string
	Name      string
	ProjectID string
	Order     int
}

// TaskRecord is a task as reported by the API.
//
// A task hangs under ParentID when set, otherwise under SectionID when set,
// otherwise directly under ProjectID.
type TaskRecord struct {
	ID        string
	Content   string
	ProjectID string
	SectionID string
	ParentID  string
	Order     int
	Labels    []string
	Completed bool
}

// Snapshot is the flat, full state of an account fetched in one request.
type Snapshot struct {
	Projects []ProjectRecord
	Sections []SectionRecord
	Tasks    []TaskRecord

	// Labels holds the names of the account's personal labels.
	Labels []string
}

// Forest is the tree view of a Snapshot. Every root is a project.
type Forest struct {
	Roots []*Node

	projects map[string]*Node
	sections map[string]*Node
	tasks    map[string]*Node

	// preorder lists every node reachable from Roots, pre-order, left to right.
	preorder []*Node
}

// Build links the records of a snapshot into a forest.
//
// It returns a *MalformedHierarchyError when a record points at a parent that is
// not in the snapshot, when two records of one kind share an id, or when parent
// links form a cycle.
func Build(s Snapshot) (*Forest, error) {
	f := &Forest{
		projects: make(map[string]*Node, len(s.Projects)),
		sections: make(map[string]*Node, len(s.Sections)),
		tasks:    make(map[string]*Node, len(s.Tasks)),
	}

	projects := make([]*Node, 0, len(s.Projects))
	for i, p := range s.Projects {
		n := &Node{ID: p.ID, Kind: KindProject, Name: p.Name, ParentID: p.ParentID, Order: p.Order, index: i}
		if err := register(f.projects, n); err != nil {
			return nil, err
		}
		projects = append(projects, n)
	}

	sections := make([]*Node, 0, len(s.Sections))
	for i, sec := range s.Sections {
		n := &Node{ID: sec.ID, Kind: KindSection, Name: sec.Name, ParentID: sec.ProjectID, Order: sec.Order, index: i}
		if err := register(f.sections, n); err != nil {
			return nil, err
		}
		sections = append(sections, n)
	}

	tasks := make([]*Node, 0, len(s.Tasks))
	for i, t := range s.Tasks {
		n := &Node{
			ID:        t.ID,
			Kind:      KindTask,
			Name:      t.Content,
			Order:     t.Order,
			Labels:    append([]string(nil), t.Labels...),
			Completed: t.Completed,
			index:     i,
		}
		if err := register(f.tasks, n); err != nil {
			return nil, err
		}
		tasks = append(tasks, n)
	}

	for _, n := range projects {
		if n.ParentID == "" {
			f.Roots = append(f.Roots, n)
			continue
		}
		parent, ok := f.projects[n.ParentID]
		if !ok {
			return nil, &MalformedHierarchyError{Kind: KindProject, NodeID: n.ID, ParentID: n.ParentID, Reason: "parent project not found"}
		}
		attach(parent, n)
	}

	for _, n := range sections {
		parent, ok := f.projects[n.ParentID]
		if !ok {
			return nil, &MalformedHierarchyError{Kind: KindSection, NodeID: n.ID, ParentID: n.ParentID, Reason: "project not found"}
		}
		attach(parent, n)
	}

	for i, n := range tasks {
		rec := s.Tasks[i]
		var (
			parent *Node
			ok     bool
			reason string
		)
		switch {
		case rec.ParentID != "":
			n.ParentID = rec.ParentID
			parent, ok = f.tasks[rec.ParentID]
			reason = "parent task not found"
		case rec.SectionID != "":
			n.ParentID = rec.SectionID
			parent, ok = f.sections[rec.SectionID]
			reason = "section not found"
		default:
			n.ParentID = rec.ProjectID
			parent, ok = f.projects[rec.ProjectID]
			reason = "project not found"
		}
		if !ok {
			return nil, &MalformedHierarchyError{Kind: KindTask, NodeID: n.ID, ParentID: n.ParentID, Reason: reason}
		}
		attach(parent, n)
	}

	sortSiblings(f.Roots)
	for _, group := range [][]*Node{projects, sections, tasks} {
		for _, n := range group {
			sortSiblings(n.Children)
		}
	}

	for _, root := range f.Roots {
		root.Walk(func(n *Node) bool {
			f.preorder = append(f.preorder, n)
			return true
		})
	}

	if len(f.preorder) != len(projects)+len(sections)+len(tasks) {
		return nil, f.unreachable(projects, sections, tasks)
	}

	return f, nil
}

func register(index map[string]*Node, n *Node) error {
	if n.ID == "" {
		return &MalformedHierarchyError{Kind: n.Kind, NodeID: n.ID, Reason: "empty id"}
	}
	if _, dup := index[n.ID]; dup {
		return &MalformedHierarchyError{Kind: n.Kind, NodeID: n.ID, Reason: "duplicate id"}
	}
	index[n.ID] = n
	return nil
}

func attach(parent, child *Node) {
	child.parent = parent
	parent.Children = append(parent.Children, child)
}

func sortSiblings(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if ra, rb := a.Kind.siblingRank(), b.Kind.siblingRank(); ra != rb {
			return ra < rb
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.index < b.index
	})
}

// unreachable builds the error for nodes whose parent chain never reaches a root.
func (f *Forest) unreachable(groups ...[]*Node) error {
	seen := make(map[*Node]bool, len(f.preorder))
	for _, n := range f.preorder {
		seen[n] = true
	}
	for _, group := range groups {
		for _, n := range group {
			if !seen[n] {
				return &MalformedHierarchyError{Kind: n.Kind, NodeID: n.ID, ParentID: n.ParentID, Reason: "parent cycle"}
			}
		}
	}
	return &MalformedHierarchyError{Reason: "unreachable nodes"}
}

// Project returns the project with the given id.
func (f *Forest) Project(id string) (*Node, bool) {
	n, ok := f.projects[id]
	return n, ok
}

// Section returns the section with the given id.
func (f *Forest) Section(id string) (*Node, bool) {
	n, ok := f.sections[id]
	return n, ok
}

// Task returns the task with the given id.
func (f *Forest) Task(id string) (*Node, bool) {
	n, ok := f.tasks[id]
	return n, ok
}

// Nodes returns every node in pre-order, roots in order. The slice is shared; do
// not modify it.
func (f *Forest) Nodes() []*Node {
	return f.preorder
}

// Tasks returns every task in pre-order.
func (f *Forest) Tasks() []*Node {
	tasks := make([]*Node, 0, len(f.tasks))
	for _, n := range f.preorder {
		if n.IsTask() {
			tasks = append(tasks, n)
		}
	}
	return tasks
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	return len(f.preorder)
}
