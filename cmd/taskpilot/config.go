package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify TaskPilot configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/taskpilot/config.yaml
Project-specific overrides can be placed in .taskpilot.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		switch len(args) {
		case 0:
			displayAllConfig(cfg)
		case 1:
			displayConfigKey(cfg, args[0])
		default:
			setConfigKey(cfg, args[0], args[1])
		}
	},
}

// displayAllConfig prints all configuration values.
func displayAllConfig(cfg *config.Config) {
	fmt.Printf("tracker.base_url: %s\n", cfg.Tracker.BaseURL)
	fmt.Printf("tracker.email: %s\n", cfg.Tracker.Email)
	fmt.Printf("tracker.api_token: %s\n", config.MaskSecret(cfg.Tracker.APIToken))
	fmt.Printf("tracker.project_key: %s\n", cfg.Tracker.ProjectKey)
	fmt.Printf("anthropic.api_key: %s\n", config.MaskSecret(cfg.Anthropic.APIKey))
	fmt.Printf("anthropic.model: %s\n", cfg.Anthropic.Model)
	fmt.Printf("anthropic.use_bedrock: %t\n", cfg.Anthropic.UseBedrock)
	fmt.Printf("anthropic.aws_region: %s\n", cfg.Anthropic.AWSRegion)
	fmt.Printf("http.port: %d\n", cfg.HTTP.Port)
	fmt.Printf("store.path: %s\n", storePathDisplay(cfg))
}

func storePathDisplay(cfg *config.Config) string {
	if cfg.Store.Path == "" {
		return "(default)"
	}
	return cfg.Store.Path
}

// displayConfigKey prints a single configuration value.
func displayConfigKey(cfg *config.Config, key string) {
	value, err := getConfigValue(cfg, key)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(value)
}

// setConfigKey sets a configuration value and saves the config.
func setConfigKey(cfg *config.Config, key, value string) {
	if err := setConfigValue(cfg, key, value); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := config.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Set %s = %s\n", key, value)
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "tracker.base_url":
		return cfg.Tracker.BaseURL, nil
	case "tracker.email":
		return cfg.Tracker.Email, nil
	case "tracker.api_token":
		return config.MaskSecret(cfg.Tracker.APIToken), nil
	case "tracker.project_key":
		return cfg.Tracker.ProjectKey, nil
	case "anthropic.api_key":
		return config.MaskSecret(cfg.Anthropic.APIKey), nil
	case "anthropic.model":
		return cfg.Anthropic.Model, nil
	case "anthropic.use_bedrock":
		return strconv.FormatBool(cfg.Anthropic.UseBedrock), nil
	case "anthropic.aws_region":
		return cfg.Anthropic.AWSRegion, nil
	case "http.port":
		return strconv.Itoa(cfg.HTTP.Port), nil
	case "store.path":
		return storePathDisplay(cfg), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "tracker.base_url":
		cfg.Tracker.BaseURL = value
	case "tracker.email":
		cfg.Tracker.Email = value
	case "tracker.api_token":
		cfg.Tracker.APIToken = value
	case "tracker.project_key":
		cfg.Tracker.ProjectKey = value
	case "anthropic.api_key":
		cfg.Anthropic.APIKey = value
	case "anthropic.model":
		cfg.Anthropic.Model = value
	case "anthropic.use_bedrock":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for use_bedrock: %w", err)
		}
		cfg.Anthropic.UseBedrock = b
	case "anthropic.aws_region":
		cfg.Anthropic.AWSRegion = value
	case "http.port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for http.port: %w", err)
		}
		cfg.HTTP.Port = n
	case "store.path":
		cfg.Store.Path = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}
