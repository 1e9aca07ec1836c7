// Package config handles configuration loading and management for TaskPilot.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for TaskPilot.
type Config struct {
	Tracker   TrackerConfig   `mapstructure:"tracker"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Store     StoreConfig     `mapstructure:"store"`
}

// TrackerConfig holds issue tracker connection settings.
type TrackerConfig struct {
	// BaseURL is the tracker instance root, e.g. https://acme.atlassian.net.
	BaseURL string `mapstructure:"base_url"`
	// Email is the account email used for basic auth.
	Email string `mapstructure:"email"`
	// APIToken is the tracker API token paired with Email.
	APIToken string `mapstructure:"api_token"`
	// ProjectKey scopes issue queries, e.g. PN2.
	ProjectKey string `mapstructure:"project_key"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	// Model names the model used for conversational replies.
	Model string `mapstructure:"model"`
	// UseBedrock routes API calls through AWS Bedrock instead of the
	// Anthropic API directly.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion selects the Bedrock region when UseBedrock is set.
	AWSRegion string `mapstructure:"aws_region"`
}

// HTTPConfig holds settings for the dashboard HTTP server.
type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

// StoreConfig holds settings for the local roster database.
type StoreConfig struct {
	// Path is the SQLite database location; empty means the XDG default.
	Path string `mapstructure:"path"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (ANTHROPIC_API_KEY, JIRA_*, TASKPILOT_PORT)
// 2. Project config (.taskpilot.yaml in current directory or parent)
// 3. User config (~/.config/taskpilot/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	userConfigDir := getUserConfigDir()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	projectConfig := findProjectConfig()
	if projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			// Merge project config (takes precedence)
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	// Environment variable overrides
	v.AutomaticEnv()
	v.SetEnvPrefix("")

	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("tracker.base_url", "JIRA_BASE_URL")
	v.BindEnv("tracker.email", "JIRA_EMAIL")
	v.BindEnv("tracker.api_token", "JIRA_API_TOKEN")
	v.BindEnv("tracker.project_key", "JIRA_PROJECT_KEY")
	v.BindEnv("http.port", "TASKPILOT_PORT")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand ${VAR} references in secrets
	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Tracker.APIToken = expandEnv(cfg.Tracker.APIToken)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	cfg.Tracker.APIToken = expandEnv(cfg.Tracker.APIToken)

	return cfg, nil
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath := filepath.Join(userConfigDir, "config.yaml")

	v := viper.New()
	v.SetConfigFile(configPath)

	v.Set("tracker.base_url", cfg.Tracker.BaseURL)
	v.Set("tracker.email", cfg.Tracker.Email)
	v.Set("tracker.api_token", cfg.Tracker.APIToken)
	v.Set("tracker.project_key", cfg.Tracker.ProjectKey)
	v.Set("anthropic.api_key", cfg.Anthropic.APIKey)
	v.Set("anthropic.model", cfg.Anthropic.Model)
	v.Set("anthropic.use_bedrock", cfg.Anthropic.UseBedrock)
	v.Set("anthropic.aws_region", cfg.Anthropic.AWSRegion)
	v.Set("http.port", cfg.HTTP.Port)
	v.Set("store.path", cfg.Store.Path)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	// Tracker defaults
	v.SetDefault("tracker.base_url", "")
	v.SetDefault("tracker.email", "")
	v.SetDefault("tracker.api_token", "")
	v.SetDefault("tracker.project_key", "")

	// Anthropic defaults
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("anthropic.aws_region", "us-east-1")

	// Server defaults
	v.SetDefault("http.port", 8090)

	// Store defaults (empty means the XDG data path)
	v.SetDefault("store.path", "")
}

// getUserConfigDir returns the XDG config directory for TaskPilot.
func getUserConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "taskpilot")
	}

	// Fall back to ~/.config/taskpilot
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "taskpilot")
	}
	return filepath.Join(home, ".config", "taskpilot")
}

// findProjectConfig searches for .taskpilot.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".taskpilot.yaml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// expandEnv expands ${VAR} references in a string.
func expandEnv(s string) string {
	return os.ExpandEnv(s)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{
			Model:     "claude-sonnet-4-20250514",
			AWSRegion: "us-east-1",
		},
		HTTP: HTTPConfig{
			Port: 8090,
		},
	}
}
