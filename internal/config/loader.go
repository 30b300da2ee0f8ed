package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ShayHill/todoist-bot/pkg/logging"
)

const (
	userConfigDir  = ".config/todoist-bot"
	configFileName = "config.yaml"

	// EnvAPIToken overrides the apiToken field.
	EnvAPIToken = "TODOIST_API_TOKEN"
)

// osUserHomeDir is swapped in tests.
var osUserHomeDir = os.UserHomeDir

// GetDefaultConfigPath returns ~/.config/todoist-bot.
func GetDefaultConfigPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir), nil
}

// ConfigFilePath returns the path of config.yaml inside configPath.
func ConfigFilePath(configPath string) string {
	return filepath.Join(configPath, configFileName)
}

// LoadConfig loads config.yaml from configPath over the defaults and applies
// the environment override. A missing file is not an error. The result is not
// validated; call Validate once flags have been applied.
func LoadConfig(configPath string) (BotConfig, error) {
	configFilePath := ConfigFilePath(configPath)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		logging.Debug("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
	case err != nil:
		return BotConfig{}, NewConfigurationError(configFilePath, "io", "failed to read configuration file", err.Error())
	default:
		if err := decode(data, &config); err != nil {
			return BotConfig{}, parseError(configFilePath, err)
		}
		logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	}

	applyEnv(&config)
	return config, nil
}

func decode(data []byte, config *BotConfig) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(config)
}

func applyEnv(config *BotConfig) {
	if token := strings.TrimSpace(os.Getenv(EnvAPIToken)); token != "" {
		config.APIToken = token
	}
}

func parseError(path string, err error) error {
	cfgErr := NewConfigurationError(path, "parse", "invalid YAML", err.Error())
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		cfgErr.Suggestions = append(cfgErr.Suggestions, "check field names and value types against 'todoist-bot check'")
	}
	return cfgErr
}
