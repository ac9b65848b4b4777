// Package config loads the server configuration: defaults, then an
// optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig identifies the server to clients.
type ServerConfig struct {
	Name         string `yaml:"name"`
	Version      string `yaml:"version"`
	Instructions string `yaml:"instructions"`
}

// HTTPConfig holds the HTTP transport settings.
type HTTPConfig struct {
	Address string `yaml:"address"`
	Path    string `yaml:"path"`
	// Token, when set, is required as a bearer token on every request.
	// It may be a 1Password secret reference (op://vault/item/field).
	Token string `yaml:"token"`
}

// AnalyzerConfig holds the analysis settings.
type AnalyzerConfig struct {
	// Root is the directory relative tool paths resolve against, and the
	// default directory for listings and overviews.
	Root string `yaml:"root"`
	// MaxFileSize caps the size of files the analyzer will read, in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`
}

// Config is the full codesight configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	HTTP     HTTPConfig     `yaml:"http"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:    "codesight",
			Version: "dev",
		},
		HTTP: HTTPConfig{
			Address: ":4280",
			Path:    "/mcp",
		},
		Analyzer: AnalyzerConfig{
			Root:        ".",
			MaxFileSize: 10 * 1024 * 1024,
		},
	}
}

// Load reads configuration from an io.Reader on top of the defaults.
func Load(r io.Reader) (*Config, error) {
	cfg := Default()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config data: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config YAML: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFile loads configuration from a file. A missing file yields the
// defaults (plus environment overrides) rather than an error.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		cfg.applyEnv()
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("error opening config file: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func (c *Config) applyEnv() {
	if root := os.Getenv("CODESIGHT_ROOT"); root != "" {
		c.Analyzer.Root = root
	}
	if addr := os.Getenv("CODESIGHT_HTTP_ADDR"); addr != "" {
		c.HTTP.Address = addr
	}
	if token := os.Getenv("CODESIGHT_TOKEN"); token != "" {
		c.HTTP.Token = token
	}
}
