// Package logging provides subsystem-tagged structured logging for todoist-bot.
//
// It wraps Go's log/slog with a single process-wide logger. Every entry carries a
// "subsystem" attribute so that output from the poll loop, the reconciler and the
// Todoist client can be filtered independently.
//
// # Levels
//
//   - Debug: per-node and per-request detail
//   - Info: cycle summaries and lifecycle events
//   - Warn: skipped cycles and recoverable failures
//   - Error: failed label updates and startup failures
//
// # Usage
//
//	logging.Init(logging.Options{Level: logging.LevelInfo, Format: logging.FormatJSON})
//
//	logging.Info("Orchestrator", "Cycle complete: %d updates", n)
//	logging.Error("Reconciler", err, "Failed to update task %s", id)
//
// Output goes to stderr unless Options.Output is set, which keeps stdout free for
// plan and check tables.
//
// # Subsystems
//
//   - Bootstrap: configuration loading and service wiring
//   - Orchestrator: poll loop state transitions and cycle reports
//   - Reconciler: label diffing and apply results
//   - Todoist: Sync API requests
//   - ConfigWatcher: configuration hot reload
//   - Systemd: service manager notifications
package logging
