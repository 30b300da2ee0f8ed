package app

import (
	"fmt"

	"github.com/ShayHill/todoist-bot/internal/config"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/internal/reconciler"
	"github.com/ShayHill/todoist-bot/internal/todoist"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// Services holds all initialized services used by the application.
type Services struct {
	// Client is the Todoist Sync API client.
	Client *todoist.Client

	// Orchestrator runs the poll loop against Client.
	Orchestrator *orchestrator.Orchestrator

	// Watcher reloads markers from config.yaml. Nil unless watchConfig is set.
	Watcher *config.Watcher

	// Notifier reports lifecycle and liveness to systemd.
	Notifier *Notifier

	// Metrics accumulates reconciliation counters across cycles.
	Metrics *reconciler.ReconcilerMetrics
}

// InitializeServices creates the client, the poll loop and, when enabled, the
// config watcher. cfg.BotConfig must already be resolved and valid.
func InitializeServices(cfg *Config) (*Services, error) {
	botCfg := cfg.BotConfig

	client, err := todoist.NewClient(todoist.Config{
		APIToken: botCfg.APIToken,
		SyncURL:  botCfg.SyncURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create todoist client: %w", err)
	}

	services := &Services{
		Client:   client,
		Notifier: NewNotifier(),
		Metrics:  reconciler.NewReconcilerMetrics(),
	}

	orchConfig := orchestrator.Config{
		Markers: botCfg.Markers,
		Delay:   botCfg.Delay(),
		Once:    botCfg.Once,
		Apply: reconciler.ApplierConfig{
			Concurrency: botCfg.Apply.Concurrency,
			Timeout:     botCfg.Apply.Timeout,
			DryRun:      botCfg.DryRun,
		},
		OnCycle: services.Notifier.Cycle,
		Metrics: services.Metrics,
	}

	if botCfg.WatchConfig && !botCfg.Once {
		overrides := cfg.Overrides
		services.Watcher = config.NewWatcher(cfg.ConfigPath, config.DefaultDebounceInterval, overrides.Apply)
		orchConfig.MarkerUpdates = services.Watcher.Updates()
		logging.Info("Bootstrap", "Watching %s for marker changes", config.ConfigFilePath(cfg.ConfigPath))
	}

	orch, err := orchestrator.New(client, orchConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create orchestrator: %w", err)
	}
	services.Orchestrator = orch

	return services, nil
}
