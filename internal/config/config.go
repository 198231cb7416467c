// Package config loads the server's host/port/log-level settings from an
// optional YAML file, with command-line flags taking precedence.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings that vary between runs of the server.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration used when no file is given
// and no flag overrides a field.
func Default() *Config {
	return &Config{
		Host:     "localhost",
		Port:     8080,
		LogLevel: "info",
	}
}

// Load reads path as YAML over the default configuration. A missing file
// is not an error: it simply leaves the defaults in place.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// ApplyFlags overrides fields with any flag values the caller has marked
// as explicitly set. Zero values (""/0) mean "not provided" and are left
// alone.
func (c *Config) ApplyFlags(host string, port int, logLevel string) {
	if host != "" {
		c.Host = host
	}
	if port != 0 {
		c.Port = port
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}
