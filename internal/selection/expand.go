package selection

import (
	"github.com/ShayHill/todoist-bot/internal/hierarchy"
	"github.com/ShayHill/todoist-bot/internal/marker"
)

// Leaves returns every leaf task at or under root in pre-order.
func Leaves(root *hierarchy.Node) []*hierarchy.Node {
	var out []*hierarchy.Node
	root.Walk(func(n *hierarchy.Node) bool {
		if n.IsLeafTask() {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Tasks returns every incomplete task at or under root in pre-order.
func Tasks(root *hierarchy.Node) []*hierarchy.Node {
	var out []*hierarchy.Node
	root.Walk(func(n *hierarchy.Node) bool {
		if n.IsTask() && !n.Completed {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Targets dispatches on scheme. Serial yields at most one task.
func Targets(scheme marker.Scheme, root *hierarchy.Node) []*hierarchy.Node {
	switch scheme {
	case marker.SchemeSerial:
		if n, ok := NextLeaf(root); ok {
			return []*hierarchy.Node{n}
		}
		return nil
	case marker.SchemeParallel:
		return Leaves(root)
	case marker.SchemeAll:
		return Tasks(root)
	default:
		return nil
	}
}
