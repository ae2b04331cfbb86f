// Package config provides configuration loading and management for spiminfo.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Output formats understood by the report package
const (
	FormatText = "text"
	FormatYAML = "yaml"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Loader parameters
	Loader struct {
		// StrictIndex rejects index files whose lines disagree on the stack shape
		StrictIndex bool `yaml:"strictIndex"`
	} `yaml:"loader"`

	// Output parameters
	Output struct {
		// Format is either "text" or "yaml"
		Format string `yaml:"format"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Loader.StrictIndex = false

	cfg.Output.Format = FormatText
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks the configuration values
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatText, FormatYAML:
	default:
		return fmt.Errorf("invalid output format: %q (must be %s or %s)", c.Output.Format, FormatText, FormatYAML)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file.
// A missing file gives the default configuration. Unknown keys are rejected
// so a misspelt setting doesn't silently fall back to its default.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	defer file.Close()

	// Decode over the defaults; an empty file keeps them all
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error in config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig writes the configuration to a YAML file, creating its directory.
func SaveConfig(cfg *Config, configPath string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile writes the default configuration to configPath.
// An existing file is left alone and reported as os.ErrExist.
func CreateDefaultConfigFile(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file %s: %w", configPath, os.ErrExist)
	}
	return SaveConfig(DefaultConfig(), configPath)
}
