package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ShayHill/todoist-bot/internal/config"
	"github.com/ShayHill/todoist-bot/internal/orchestrator"
	"github.com/ShayHill/todoist-bot/pkg/logging"
)

// Application represents the main application structure that bootstraps and
// runs the bot.
//
// The Application follows a two-phase initialization pattern:
//  1. Bootstrap phase: load configuration, initialize logging, set up services
//  2. Execution phase: run the poll loop
//
// Example usage:
//
//	cfg := app.NewConfig(false, "", app.Overrides{DryRun: true})
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// LogOutput is where the process-wide logger writes. Tests replace it.
var LogOutput io.Writer = os.Stderr

// NewApplication creates and initializes a new application instance.
//
// Configuration is resolved in order: defaults, config.yaml, TODOIST_API_TOKEN,
// then cfg.Overrides. The result must pass validation; the returned error then
// satisfies config.IsConfigError.
func NewApplication(cfg *Config) (*Application, error) {
	if cfg.BotConfig == nil {
		botCfg, err := ResolveConfig(cfg)
		if err != nil {
			return nil, err
		}
		cfg.BotConfig = &botCfg
	}

	if err := cfg.BotConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := initLogging(cfg); err != nil {
		return nil, err
	}
	logging.Debug("Bootstrap", "Resolved configuration: %+v", cfg.BotConfig.Redacted())

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// ResolveConfig loads the configuration directory of cfg and applies the
// overrides without validating the result.
func ResolveConfig(cfg *Config) (config.BotConfig, error) {
	configPath := cfg.ConfigPath
	if configPath == "" {
		var err error
		configPath, err = config.GetDefaultConfigPath()
		if err != nil {
			return config.BotConfig{}, err
		}
	}

	botCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return config.BotConfig{}, fmt.Errorf("failed to load configuration from %s: %w", configPath, err)
	}
	cfg.ConfigPath = configPath
	cfg.Overrides.Apply(&botCfg)
	return botCfg, nil
}

func initLogging(cfg *Config) error {
	level, err := logging.ParseLevel(cfg.BotConfig.Logging.Level)
	if err != nil {
		return err
	}
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(logging.Options{
		Level:  level,
		Format: logging.Format(cfg.BotConfig.Logging.Format),
		Output: LogOutput,
	})
	return nil
}

// Run executes the poll loop until ctx is cancelled, SIGINT or SIGTERM
// arrives, or the single cycle of --once completes.
func (a *Application) Run(ctx context.Context) error {
	return runDaemon(ctx, a.config, a.services)
}

// RunOnce runs exactly one cycle and returns its report. It does not start the
// config watcher or talk to systemd.
func (a *Application) RunOnce(ctx context.Context) orchestrator.CycleReport {
	return a.services.Orchestrator.RunCycle(ctx)
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}
