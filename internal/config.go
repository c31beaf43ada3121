package internal

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the production API origin.
const DefaultBaseURL = "https://rakshanetra-api.koyeb.app"

const defaultTimeoutSeconds = 30

// Config holds client configuration loaded from config.yaml.
type Config struct {
	BaseURL        string `yaml:"base_url"`
	Language       string `yaml:"language"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConfigDir returns the directory holding client state (config,
// credentials, history cache). RAKSHANETRA_HOME overrides the default
// location under the user's home directory.
func ConfigDir() (string, error) {
	if dir := os.Getenv("RAKSHANETRA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".rakshanetra"), nil
}

// LoadConfig reads config.yaml from the config directory, filling in
// defaults for anything unset. A missing file yields the defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		BaseURL:        DefaultBaseURL,
		Language:       "English",
		TimeoutSeconds: defaultTimeoutSeconds,
	}

	dir, err := ConfigDir()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "English"
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = defaultTimeoutSeconds
	}

	return cfg, nil
}

// SaveConfig writes the configuration back to config.yaml.
func SaveConfig(cfg *Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644)
}
