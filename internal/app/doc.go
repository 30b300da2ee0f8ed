// Package app bootstraps and runs the bot.
//
// NewApplication resolves the configuration (defaults, config.yaml,
// TODOIST_API_TOKEN, then command-line overrides), validates it, sets up
// logging and wires the services:
//
//   - a todoist.Client for the Sync API
//   - an orchestrator.Orchestrator running the poll loop against it
//   - a config.Watcher when watchConfig is enabled, feeding reloaded markers
//     into the loop
//   - a Notifier that reports READY, STOPPING, per-cycle STATUS and watchdog
//     pings to systemd when running under a notify unit
//
// Run blocks until SIGINT, SIGTERM, context cancellation or, with --once,
// the end of the first cycle. RunOnce executes a single cycle without the
// watcher or systemd, which the plan command uses.
package app
