package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShayHill/todoist-bot/internal/marker"
	"github.com/ShayHill/todoist-bot/internal/todoist"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte(content), 0600))
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	t.Setenv(EnvAPIToken, "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, GetDefaultConfig(), cfg)
	assert.Equal(t, todoist.DefaultSyncURL, cfg.SyncURL)
	assert.Equal(t, 5*time.Second, cfg.Delay())
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv(EnvAPIToken, "")
	dir := t.TempDir()
	writeConfig(t, dir, `
apiToken: file-token
delaySeconds: 10
dryRun: true
markers:
  - scheme: serial
    label: next_action
    suffix: -n
  - scheme: all
    label: in_scope
    suffix: -a
apply:
  timeout: 5s
logging:
  level: debug
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.APIToken)
	assert.Equal(t, 10, cfg.DelaySeconds)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, []marker.Marker{
		{Scheme: marker.SchemeSerial, Label: "next_action", Suffix: "-n"},
		{Scheme: marker.SchemeAll, Label: "in_scope", Suffix: "-a"},
	}, cfg.Markers)
	assert.Equal(t, 5*time.Second, cfg.Apply.Timeout)
	assert.Equal(t, DefaultConcurrency, cfg.Apply.Concurrency, "unset fields keep their defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "apiToken: file-token\n")
	t.Setenv(EnvAPIToken, "env-token")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.APIToken)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	t.Setenv(EnvAPIToken, "")
	dir := t.TempDir()
	writeConfig(t, dir, "\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), cfg)
}

func TestLoadConfig_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid yaml", "markers: [unclosed\n"},
		{"unknown field", "delay: 5\n"},
		{"wrong type", "delaySeconds: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := LoadConfig(dir)
			require.Error(t, err)

			var cfgErr ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, "parse", cfgErr.ErrorType)
			assert.Equal(t, configFileName, cfgErr.FileName)
			assert.True(t, IsConfigError(err))
			assert.Contains(t, cfgErr.DetailedError(), "Type: parse")
		})
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	original := osUserHomeDir
	defer func() { osUserHomeDir = original }()

	osUserHomeDir = func() (string, error) { return "/home/tester", nil }
	path, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/tester", ".config", "todoist-bot"), path)

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	_, err = GetDefaultConfigPath()
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.APIToken = "secret"

	assert.Equal(t, "<redacted>", cfg.Redacted().APIToken)
	assert.Equal(t, "secret", cfg.APIToken)
}
