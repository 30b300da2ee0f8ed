package selection

import (
	"github.com/ShayHill/todoist-bot/internal/hierarchy"
)

// NextLeaf returns the next action under root: the leaf task with the smallest
// branch depth, where depth counts the levels walked from root (root itself is
// depth 0, a direct child depth 1, project→section→task depth 2). Among equal
// depths the candidate reached through the earliest sibling wins.
//
// The boolean is false when the subtree holds no incomplete leaf task.
func NextLeaf(root *hierarchy.Node) (*hierarchy.Node, bool) {
	n, _, ok := nextLeaf(root)
	return n, ok
}

func nextLeaf(n *hierarchy.Node) (*hierarchy.Node, int, bool) {
	if n.IsLeafTask() {
		return n, 0, true
	}

	var (
		best      *hierarchy.Node
		bestDepth int
	)
	for _, child := range n.Children {
		candidate, depth, ok := nextLeaf(child)
		if !ok {
			continue
		}
		depth++
		// Strictly less keeps the earliest sibling on ties.
		if best == nil || depth < bestDepth {
			best, bestDepth = candidate, depth
		}
	}
	return best, bestDepth, best != nil
}
