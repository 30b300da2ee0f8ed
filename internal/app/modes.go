package app

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// runDaemon executes the poll loop in the foreground.
//
// SIGINT and SIGTERM stop the loop at its next sleep. A cycle in progress
// still sends every update it computed; a pending sleep is cut short. The
// config watcher, when configured, runs for the lifetime of the loop.
func runDaemon(ctx context.Context, config *Config, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if services.Watcher != nil {
		if err := services.Watcher.Start(ctx); err != nil {
			logging.Warn("Bootstrap", "Config reload disabled: %v", err)
		} else {
			defer func() {
				if err := services.Watcher.Stop(); err != nil {
					logging.Warn("Bootstrap", "Failed to stop config watcher: %v", err)
				}
			}()
		}
	}

	if config.BotConfig.DryRun {
		logging.Info("Bootstrap", "Dry run: label updates are computed and logged but not sent")
	}
	if !config.BotConfig.Once {
		logging.Info("Bootstrap", "Polling Todoist. Press Ctrl+C to stop.")
	}

	services.Notifier.Ready()
	defer services.Notifier.Stopping()

	return services.Orchestrator.Run(ctx)
}
