package config

import (
	"time"

	"github.com/ShayHill/todoist-bot/internal/marker"
)

// BotConfig is the top-level configuration structure for todoist-bot.
type BotConfig struct {
	// APIToken is the Todoist personal API token. TODOIST_API_TOKEN overrides it.
	APIToken string `yaml:"apiToken,omitempty"`

	// SyncURL overrides the Sync API endpoint.
	SyncURL string `yaml:"syncURL,omitempty"`

	// DelaySeconds is the target length of one poll cycle (default: 5).
	DelaySeconds int `yaml:"delaySeconds,omitempty"`

	DryRun bool `yaml:"dryRun,omitempty"`
	Once   bool `yaml:"once,omitempty"`

	// Markers are evaluated independently, in order.
	Markers []marker.Marker `yaml:"markers,omitempty"`

	Apply   ApplyConfig   `yaml:"apply,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`

	// WatchConfig reloads markers when config.yaml changes.
	WatchConfig bool `yaml:"watchConfig,omitempty"`
}

// ApplyConfig bounds how label updates are sent.
type ApplyConfig struct {
	Concurrency int           `yaml:"concurrency,omitempty"` // Concurrent task updates (default: 4)
	Timeout     time.Duration `yaml:"timeout,omitempty"`     // Per-request timeout (default: 30s)
}

// LoggingConfig selects log verbosity and format.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn or error (default: info)
	Format string `yaml:"format,omitempty"` // text or json (default: text)
}

// Delay returns DelaySeconds as a duration.
func (c BotConfig) Delay() time.Duration {
	return time.Duration(c.DelaySeconds) * time.Second
}

// Redacted returns a copy safe to print.
func (c BotConfig) Redacted() BotConfig {
	out := c
	if out.APIToken != "" {
		out.APIToken = "<redacted>"
	}
	out.Markers = append([]marker.Marker(nil), c.Markers...)
	return out
}
