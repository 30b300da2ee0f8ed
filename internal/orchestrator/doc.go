// Package orchestrator runs the label bot's poll loop.
//
// # Cycle
//
// Each cycle moves through a fixed set of states:
//
//	Fetching -> Computing -> Reconciling -> Sleeping -> Fetching ...
//
//   - Fetching: ask the Collaborator for the account state. A fetch that
//     reports hierarchy.ErrUnchanged, or fails, skips straight to Sleeping.
//     Failures are reported as a *TransientFetchError.
//   - Computing: build the forest, resolve markers, aggregate the desired
//     labels and diff them against the observed ones. A malformed hierarchy
//     aborts the cycle.
//   - Reconciling: apply the updates through a reconciler.Applier, or count
//     them as withheld in dry-run mode.
//   - Sleeping: wait for the configured delay minus the time the cycle took.
//
// The loop enters Stopped when its context is cancelled or, in single-shot
// mode, after the first cycle.
//
// # Full resyncs
//
// When a cycle has rejected updates, hits a malformed hierarchy, or adopts a
// reloaded marker set, the orchestrator asks collaborators implementing
// Invalidator to return the full state on the next fetch.
//
// # Reports
//
// Every cycle produces a CycleReport which is logged and passed to the
// optional Config.OnCycle hook. RunCycle runs a single cycle and returns its
// report directly, which is how the plan command previews updates.
package orchestrator
