package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected default model, got %q", cfg.Anthropic.Model)
	}

	if cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to default to false")
	}

	if cfg.HTTP.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", cfg.HTTP.Port)
	}

	if cfg.Store.Path != "" {
		t.Errorf("expected empty store path (XDG default), got %q", cfg.Store.Path)
	}
}

func TestLoadFromPath(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
tracker:
  base_url: https://acme.atlassian.net
  email: pm@acme.com
  api_token: secret-token
  project_key: PN2
anthropic:
  api_key: test-key
  model: claude-haiku-4
  use_bedrock: true
  aws_region: eu-west-1
http:
  port: 9000
store:
  path: /tmp/taskpilot.db
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Tracker.BaseURL != "https://acme.atlassian.net" {
		t.Errorf("expected base_url from file, got %q", cfg.Tracker.BaseURL)
	}

	if cfg.Tracker.ProjectKey != "PN2" {
		t.Errorf("expected project_key 'PN2', got %q", cfg.Tracker.ProjectKey)
	}

	if cfg.Anthropic.APIKey != "test-key" {
		t.Errorf("expected api_key 'test-key', got %q", cfg.Anthropic.APIKey)
	}

	if cfg.Anthropic.Model != "claude-haiku-4" {
		t.Errorf("expected model 'claude-haiku-4', got %q", cfg.Anthropic.Model)
	}

	if !cfg.Anthropic.UseBedrock {
		t.Error("expected use_bedrock to be true")
	}

	if cfg.Anthropic.AWSRegion != "eu-west-1" {
		t.Errorf("expected aws_region 'eu-west-1', got %q", cfg.Anthropic.AWSRegion)
	}

	if cfg.HTTP.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.HTTP.Port)
	}

	if cfg.Store.Path != "/tmp/taskpilot.db" {
		t.Errorf("expected store path from file, got %q", cfg.Store.Path)
	}
}

func TestLoadFromPath_DefaultsFillGaps(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	// Only the tracker section is set; everything else should default.
	configContent := `
tracker:
  base_url: https://acme.atlassian.net
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.HTTP.Port != 8090 {
		t.Errorf("expected default port 8090, got %d", cfg.HTTP.Port)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("expected default model, got %q", cfg.Anthropic.Model)
	}
}

func TestLoadFromPath_ExpandsSecretReferences(t *testing.T) {
	os.Setenv("TEST_TRACKER_TOKEN", "expanded-token")
	defer os.Unsetenv("TEST_TRACKER_TOKEN")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
tracker:
  api_token: ${TEST_TRACKER_TOKEN}
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}

	if cfg.Tracker.APIToken != "expanded-token" {
		t.Errorf("expected expanded token, got %q", cfg.Tracker.APIToken)
	}
}

func TestExpandEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "expanded-value")
	defer os.Unsetenv("TEST_VAR")

	result := expandEnv("${TEST_VAR}")
	if result != "expanded-value" {
		t.Errorf("expected 'expanded-value', got %q", result)
	}

	result = expandEnv("prefix-${TEST_VAR}-suffix")
	if result != "prefix-expanded-value-suffix" {
		t.Errorf("expected 'prefix-expanded-value-suffix', got %q", result)
	}
}

func TestGetUserConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	os.Setenv("XDG_CONFIG_HOME", "/custom/config")
	defer os.Unsetenv("XDG_CONFIG_HOME")

	dir := getUserConfigDir()
	expected := "/custom/config/taskpilot"
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}
