package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Portal defaults
	if cfg.Portal.BaseURL == "" {
		t.Error("Expected a default portal base URL")
	}
	if cfg.Portal.APIToken != "" {
		t.Errorf("Expected no default API token, got %q", cfg.Portal.APIToken)
	}

	// Parser defaults
	if !cfg.Parser.Validation {
		t.Error("Expected validation enabled by default")
	}
	if !cfg.Parser.Caching {
		t.Error("Expected caching enabled by default")
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level 'info', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Expected default log format 'console', got %q", cfg.Logging.Format)
	}
}

func TestLoad(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
portal:
  baseUrl: https://apihub.example.com
  projectVersionId: pv-123
  apiToken: secret-token
parser:
  validation: false
logging:
  level: debug
  format: json
`

	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Portal.BaseURL != "https://apihub.example.com" {
		t.Errorf("Expected base URL from file, got %q", cfg.Portal.BaseURL)
	}
	if cfg.Portal.ProjectVersionID != "pv-123" {
		t.Errorf("Expected project version 'pv-123', got %q", cfg.Portal.ProjectVersionID)
	}
	if cfg.Portal.APIToken != "secret-token" {
		t.Errorf("Expected token from file, got %q", cfg.Portal.APIToken)
	}
	if cfg.Parser.Validation {
		t.Error("Expected validation disabled by the file")
	}
	// Unset fields keep their defaults
	if !cfg.Parser.Caching {
		t.Error("Expected caching to keep its default")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level 'debug', got %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("portal: [broken"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
