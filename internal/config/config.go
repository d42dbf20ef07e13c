package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Service  Service  `yaml:"service"`
	Analysis Analysis `yaml:"analysis"`
	Feeds    []Feed   `yaml:"feeds"`
	Output   Output   `yaml:"output"`
	Server   Server   `yaml:"server"`
	Logging  Logging  `yaml:"logging"`
}

// Service configures the external analysis service.
type Service struct {
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Analysis configures batch validation and metadata enrichment.
type Analysis struct {
	MinURLs        int  `yaml:"min_urls"`
	EnrichMetadata bool `yaml:"enrich_metadata"`
}

type Feed struct {
	URL  string `yaml:"url"`
	Name string `yaml:"name"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for pulso.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "pulso")
}

// DataDir returns the XDG data directory for pulso.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "pulso")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/pulso/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'pulso init' to create a default config",
		xdgConfig,
	)
}

// GetDataDir returns the configured data directory, falling back to the
// XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// Load reads and parses a config YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		Service: Service{
			BaseURL:        "http://localhost:8080",
			APIKeyEnv:      "PULSO_API_KEY",
			TimeoutSeconds: 120,
		},
		Analysis: Analysis{
			MinURLs:        25,
			EnrichMetadata: true,
		},
		Output:  Output{DataDir: DataDir()},
		Server:  Server{Port: 8000},
		Logging: Logging{Level: "info"},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}
