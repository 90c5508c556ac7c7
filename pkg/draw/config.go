package draw

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the ambient knobs of the assembly engine. Template and
// output locations are deliberately not here: they travel per call in
// FillOptions so that nothing depends on process-global paths.
type Config struct {
	// SofficePath overrides the LibreOffice binary used for final PDF
	// conversion. Empty means look up soffice/libreoffice on PATH.
	SofficePath string
	// ConvertTimeout bounds a single converter invocation.
	ConvertTimeout time.Duration
	// LogLevel controls CLI logging verbosity (debug, info, warn, error).
	LogLevel string
}

// FillOptions carries the per-call template and output paths of one
// assembly. The template asset is read-only; the output is written
// atomically or not at all.
type FillOptions struct {
	TemplatePath string
	OutputPath   string
}

// Validate checks that an assembly call has both paths.
func (o FillOptions) Validate() error {
	if o.TemplatePath == "" {
		return errors.New("template path is required")
	}
	if o.OutputPath == "" {
		return errors.New("output path is required")
	}
	return nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ConvertTimeout: 2 * time.Minute,
		LogLevel:       "info",
	}
}

// ConfigFromEnvironment creates a configuration from MR20_* environment
// variables, starting from the defaults.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("MR20_SOFFICE"); val != "" {
		config.SofficePath = val
	}
	if val := os.Getenv("MR20_CONVERT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			config.ConvertTimeout = d
		}
	}
	if val := os.Getenv("MR20_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}

// fileConfig is the YAML shape of an optional config file.
type fileConfig struct {
	Soffice        string `yaml:"soffice"`
	ConvertTimeout string `yaml:"convert_timeout"`
	LogLevel       string `yaml:"log_level"`
}

// LoadConfigFile merges a YAML config file over c. Unset keys keep their
// current values.
func (c *Config) LoadConfigFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if fc.Soffice != "" {
		c.SofficePath = fc.Soffice
	}
	if fc.ConvertTimeout != "" {
		d, err := time.ParseDuration(fc.ConvertTimeout)
		if err != nil {
			return fmt.Errorf("invalid convert_timeout in %s: %w", path, err)
		}
		c.ConvertTimeout = d
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ConvertTimeout <= 0 {
		return errors.New("convert timeout must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	return nil
}
