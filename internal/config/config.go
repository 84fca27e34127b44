package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the harness configuration
type Config struct {
	Portal  PortalConfig  `yaml:"portal"`
	Parser  ParserConfig  `yaml:"parser"`
	Logging LoggingConfig `yaml:"logging"`
}

// PortalConfig holds the product API connection settings
type PortalConfig struct {
	BaseURL          string `yaml:"baseUrl"`          // Product API base URL
	ProjectVersionID string `yaml:"projectVersionId"` // Default project document version
	APIToken         string `yaml:"apiToken"`         // Static token; empty means use the captured login token
}

// ParserConfig holds specification parsing settings
type ParserConfig struct {
	Validation bool `yaml:"validation"` // Require info.title and info.version
	Caching    bool `yaml:"caching"`    // Reuse parsed results per dispatcher
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Portal: PortalConfig{
			BaseURL: "https://apihub.document360.io",
		},
		Parser: ParserConfig{
			Validation: true,
			Caching:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
