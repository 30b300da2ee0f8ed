package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayHill/todoist-bot/internal/marker"
)

func validConfig() BotConfig {
	cfg := GetDefaultConfig()
	cfg.APIToken = "token"
	cfg.Markers = []marker.Marker{{Scheme: marker.SchemeSerial, Label: "next_action", Suffix: "-n"}}
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BotConfig)
		field  string
	}{
		{"valid", func(*BotConfig) {}, ""},
		{"missing token", func(c *BotConfig) { c.APIToken = " " }, "apiToken"},
		{"no markers", func(c *BotConfig) { c.Markers = nil }, "markers"},
		{"unknown scheme", func(c *BotConfig) { c.Markers[0].Scheme = "random" }, "markers[0].scheme"},
		{"empty label", func(c *BotConfig) { c.Markers[0].Label = "" }, "markers[0].label"},
		{"empty suffix", func(c *BotConfig) { c.Markers[0].Suffix = "  " }, "markers[0].suffix"},
		{"negative delay", func(c *BotConfig) { c.DelaySeconds = -1 }, "delaySeconds"},
		{"negative concurrency", func(c *BotConfig) { c.Apply.Concurrency = -2 }, "apply.concurrency"},
		{"relative sync url", func(c *BotConfig) { c.SyncURL = "/sync" }, "syncURL"},
		{"bad log level", func(c *BotConfig) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *BotConfig) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var errs ValidationErrors
			require.True(t, errors.As(err, &errs))
			require.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Markers = []marker.Marker{{Scheme: "bogus"}}

	err := cfg.Validate()

	var errs ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.Len(t, errs, 4)
	assert.Contains(t, err.Error(), "validation failed:")
}

func TestValidateOffline_SkipsToken(t *testing.T) {
	cfg := validConfig()
	cfg.APIToken = ""

	assert.NoError(t, cfg.ValidateOffline())
	assert.Error(t, cfg.Validate())
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "field 'x': bad", ValidationError{Field: "x", Message: "bad"}.Error())
	assert.Equal(t, "bad", ValidationError{Message: "bad"}.Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}

func TestIsConfigError(t *testing.T) {
	assert.False(t, IsConfigError(errors.New("network down")))
	assert.True(t, IsConfigError(NewConfigurationError("/tmp/config.yaml", "io", "failed", "")))
}
