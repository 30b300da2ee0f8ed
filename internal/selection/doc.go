// Package selection computes which tasks under a marked node receive a label.
//
//   - Serial: NextLeaf picks one task, the leaf reached by the shortest branch.
//     Ties at equal depth go to the earliest sibling at each level.
//   - Parallel: Leaves returns every leaf task.
//   - All: Tasks returns every task.
//
// A leaf is an incomplete task with no incomplete child tasks. Completed tasks
// are never selected, but their subtrees are still searched. "Under" includes the
// marked node itself when it is a task.
package selection
