package config

import (
	"time"

	"github.com/ShayHill/todoist-bot/internal/todoist"
)

const (
	// DefaultDelaySeconds is the default poll cycle length.
	DefaultDelaySeconds = 5

	// DefaultConcurrency is the default number of concurrent task updates.
	DefaultConcurrency = 4

	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second
)

// GetDefaultConfig returns default configuration
func GetDefaultConfig() BotConfig {
	return BotConfig{
		SyncURL:      todoist.DefaultSyncURL,
		DelaySeconds: DefaultDelaySeconds,
		Apply: ApplyConfig{
			Concurrency: DefaultConcurrency,
			Timeout:     DefaultTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
