// Package fixtures builds Todoist hierarchy snapshots for tests.
//
// Records are added in the order siblings should appear; the builder assigns
// increasing API order values so the insertion order is the sibling order.
//
//	snap := fixtures.NewSnapshot().
//		Project("work", "Work").
//		Section("plan", "work", "Plan -n").
//		Task("draft", "work", "Draft", fixtures.InSection("plan")).
//		Task("review", "work", "Review", fixtures.InSection("plan")).
//		Snapshot()
package fixtures
