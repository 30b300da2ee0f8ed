package hierarchy

// Kind tags a node as a project, section or task.
type Kind int

const (
	KindProject Kind = iota
	KindSection
	KindTask
)

// String makes Kind satisfy the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindSection:
		return "section"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// siblingRank orders children of different kinds under one parent: direct tasks
// come before sections, which come before sub-projects.
func (k Kind) siblingRank() int {
	switch k {
	case KindTask:
		return 0
	case KindSection:
		return 1
	default:
		return 2
	}
}

// Node is one project, section or task in the forest.
//
// Projects and sections are structural: they may carry marker suffixes in their
// names but never carry labels and are never selected as targets.
type Node struct {
	ID   string
	Kind Kind
	Name string

	// ParentID is empty for root projects.
	ParentID string

	// Order is the API-reported position among siblings of the same kind.
	Order int

	// Labels and Completed are only meaningful for tasks.
	Labels    []string
	Completed bool

	// Children is ordered by kind group, then Order, then snapshot position.
	Children []*Node

	parent *Node
	index  int
}

// Parent returns the owning node, or nil for a root project.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsTask reports whether the node is a task.
func (n *Node) IsTask() bool {
	return n.Kind == KindTask
}

// HasLabel reports whether the task currently carries label.
func (n *Node) HasLabel(label string) bool {
	for _, l := range n.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// HasOpenChildTasks reports whether any direct child is an incomplete task.
func (n *Node) HasOpenChildTasks() bool {
	for _, c := range n.Children {
		if c.IsTask() && !c.Completed {
			return true
		}
	}
	return false
}

// IsLeafTask reports whether the node is an incomplete task with no open child
// tasks. Leaf tasks are the candidates for the serial and parallel schemes.
func (n *Node) IsLeafTask() bool {
	return n.IsTask() && !n.Completed && !n.HasOpenChildTasks()
}

// Walk visits n and its descendants in pre-order, left to right. Returning false
// from fn skips the node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
