package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/dusk-indust/docgraph/internal/docstore"
)

// FileNames are the config file names Load looks for, in order.
var FileNames = []string{"docgraph.yml", "docgraph.yaml"}

// Config holds settings loaded from docgraph.yml.
type Config struct {
	Store    docstore.Config `yaml:"store"`
	Database string          `yaml:"database" validate:"required"`
	// Durable makes graph writes wait for a durable acknowledgement.
	Durable bool      `yaml:"durable"`
	Log     LogConfig `yaml:"log"`
	MCP     MCPConfig `yaml:"mcp"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format,omitempty" validate:"omitempty,oneof=text json"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	// HTTPAddr serves streamable HTTP when set; stdio otherwise.
	HTTPAddr string `yaml:"httpAddr,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Store: docstore.Config{
			Driver: "badger",
			Path:   filepath.Join(".docgraph", "data"),
		},
		Database: "graph",
		Durable:  true,
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load attempts to read docgraph.yml or docgraph.yaml from the given
// directory. Returns the default config (not an error) if no config file
// exists.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return LoadFile(path)
	}
	return Default(), nil
}

// LoadFile reads the config at path over the defaults and validates it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
