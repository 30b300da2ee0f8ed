// Package reconciler turns marker matches into label updates and applies them.
//
// # Overview
//
// Reconciliation runs once per poll cycle in three steps:
//
//   - BuildDesired: union each marker's label onto the target tasks chosen by
//     its scheme under every matched node
//   - Diff: compare the desired assignment with the labels observed on every
//     task, touching only labels owned by a configured marker
//   - Applier.Apply: send the resulting updates with bounded concurrency,
//     collecting one UpdateApplyError per rejected task
//
// Labels that no marker owns are never added or removed, so hand-applied
// labels survive every cycle. A converged forest produces no updates, which
// keeps the loop idempotent.
//
// # Usage
//
//	desired := reconciler.BuildDesired(marker.Resolve(forest, markers))
//	updates := reconciler.Diff(forest, desired)
//	result := applier.Apply(ctx, updates, snapshot.Labels)
//	for _, failure := range result.Failures {
//	    logging.Warn("Bot", "%v", failure)
//	}
//
// # Metrics
//
// ReconcilerMetrics counts cycles and update outcomes globally and per label.
// The process-wide instance is available through GetReconcilerMetrics.
package reconciler
