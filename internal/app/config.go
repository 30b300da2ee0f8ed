package app

import (
	"github.com/ShayHill/todoist-bot/internal/config"
	"github.com/ShayHill/todoist-bot/internal/marker"
)

// Config holds the application configuration
type Config struct {
	// Debug forces debug logging regardless of logging.level.
	Debug bool

	// Custom configuration directory (optional).
	// When empty, ~/.config/todoist-bot is used.
	ConfigPath string

	// Overrides carries command-line flags. They win over the file and the
	// environment.
	Overrides Overrides

	// Resolved bot configuration, filled by NewApplication when nil.
	BotConfig *config.BotConfig
}

// Overrides are command-line values applied on top of the loaded config.
// Zero values leave the loaded setting alone.
type Overrides struct {
	APIToken string

	// Markers replaces the configured markers when non-empty.
	Markers []marker.Marker

	// DelaySeconds is applied when non-nil.
	DelaySeconds *int

	DryRun    bool
	Once      bool
	LogLevel  string
	LogFormat string
}

// Apply writes the overrides into c.
func (o Overrides) Apply(c *config.BotConfig) {
	if o.APIToken != "" {
		c.APIToken = o.APIToken
	}
	if len(o.Markers) > 0 {
		c.Markers = append([]marker.Marker(nil), o.Markers...)
	}
	if o.DelaySeconds != nil {
		c.DelaySeconds = *o.DelaySeconds
	}
	if o.DryRun {
		c.DryRun = true
	}
	if o.Once {
		c.Once = true
	}
	if o.LogLevel != "" {
		c.Logging.Level = o.LogLevel
	}
	if o.LogFormat != "" {
		c.Logging.Format = o.LogFormat
	}
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string, overrides Overrides) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Overrides:  overrides,
	}
}
