package config

import (
	"fmt"
	"os"

	"github.com/neboloop/webmcp/internal/browser"

	"gopkg.in/yaml.v3"
)

// Config is the full webmcp configuration.
type Config struct {
	Server  ServerConfig   `yaml:"server"`
	HTTP    HTTPConfig     `yaml:"http"`
	Browser browser.Config `yaml:"browser"`
}

// ServerConfig identifies the MCP server to clients.
type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// HTTPConfig configures the optional streamable HTTP transport.
type HTTPConfig struct {
	// Addr is the listen address (e.g. ":8931"). Empty serves stdio only.
	Addr string `yaml:"addr,omitempty"`
}

// LoadFromBytes loads configuration from YAML bytes with environment
// variable expansion.
func LoadFromBytes(data []byte) (*Config, error) {
	var c Config
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), &c); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	c.applyDefaults()
	return &c, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}

func (c *Config) applyDefaults() {
	if c.Server.Name == "" {
		c.Server.Name = "webmcp"
	}
	if c.Server.Version == "" {
		c.Server.Version = "1.0.0"
	}
	if c.Browser.Driver == "" {
		c.Browser.Driver = browser.DriverPlaywright
	}
}
