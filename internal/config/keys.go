// Package config provides credential management utilities.
package config

import (
	"errors"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no Anthropic API key is configured.
var ErrNoAPIKey = errors.New("no Anthropic API key configured")

// ErrNoTrackerCredentials is returned when tracker connection settings are incomplete.
var ErrNoTrackerCredentials = errors.New("tracker base URL, email, and API token must all be configured")

// GetAPIKey returns the Anthropic API key from the configuration.
// It checks in order: environment variable, config file.
func GetAPIKey(cfg *Config) (string, error) {
	// First check environment variable directly
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}

	// Then check config
	if cfg != nil && cfg.Anthropic.APIKey != "" {
		// Expand any remaining env var references
		key := os.ExpandEnv(cfg.Anthropic.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return key, nil
		}
	}

	return "", ErrNoAPIKey
}

// ValidateAPIKey performs basic validation on an API key.
// It checks format but does not verify the key with Anthropic's API.
func ValidateAPIKey(key string) error {
	if key == "" {
		return ErrNoAPIKey
	}

	// Anthropic API keys start with "sk-ant-"
	if !strings.HasPrefix(key, "sk-ant-") {
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	}

	// Keys should be reasonably long
	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}

	return nil
}

// ValidateTrackerCredentials checks that the tracker connection settings are
// complete enough to attempt a request. It does not contact the tracker.
func ValidateTrackerCredentials(cfg *Config) error {
	if cfg == nil {
		return ErrNoTrackerCredentials
	}
	t := cfg.Tracker
	if t.BaseURL == "" || t.Email == "" || t.APIToken == "" {
		return ErrNoTrackerCredentials
	}
	if !strings.HasPrefix(t.BaseURL, "http://") && !strings.HasPrefix(t.BaseURL, "https://") {
		return errors.New("tracker base URL must start with http:// or https://")
	}
	return nil
}

// MaskSecret returns a masked version of a secret for display.
// Shows the first 4 and last 4 characters when the value is long enough.
func MaskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}

	if len(secret) <= 12 {
		return "***"
	}

	return secret[:4] + "..." + secret[len(secret)-4:]
}

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv    KeySource = "environment"
	KeySourceConfig KeySource = "config_file"
	KeySourceNone   KeySource = "none"
)

// GetAPIKeySource returns where the Anthropic API key was sourced from.
func GetAPIKeySource(cfg *Config) KeySource {
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return KeySourceEnv
	}

	if cfg != nil && cfg.Anthropic.APIKey != "" {
		key := os.ExpandEnv(cfg.Anthropic.APIKey)
		if key != "" && !strings.HasPrefix(key, "${") {
			return KeySourceConfig
		}
	}

	return KeySourceNone
}
