package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".telespotter"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads configuration overrides from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers
// decide whether that matters based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	if cf.Sources == nil {
		cf.Sources = make(map[string]SourceConfig)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in order:
// the explicit path, the current directory, the XDG config directory,
// then the user's home directory. Returns empty when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Apply merges file overrides into the config. Zero values in the file
// leave the config untouched, so defaults and flags survive.
func (c *Config) Apply(cf *File) error {
	if cf == nil {
		return nil
	}
	c.SourceOverrides = cf

	if cf.Concurrency > 0 {
		c.Concurrency = cf.Concurrency
	}
	if cf.TaskTimeout != "" {
		d, err := time.ParseDuration(cf.TaskTimeout)
		if err != nil {
			return fmt.Errorf("parse taskTimeout: %w", err)
		}
		c.TaskTimeout = d
	}
	if cf.MaxRetries > 0 {
		c.MaxRetries = cf.MaxRetries
	}
	if cf.Retention != "" {
		d, err := time.ParseDuration(cf.Retention)
		if err != nil {
			return fmt.Errorf("parse retention: %w", err)
		}
		c.Retention = d
	}
	if cf.RequestsPerSecond > 0 {
		c.RequestsPerSecond = cf.RequestsPerSecond
	}
	if cf.ProxyAddress != "" {
		c.ProxyAddress = cf.ProxyAddress
	}
	if cf.UserAgent != "" {
		c.UserAgent = cf.UserAgent
	}
	if cf.ListenAddress != "" {
		c.ListenAddress = cf.ListenAddress
	}
	return nil
}

// EnabledSources resolves the configured source names against file
// overrides: an explicit Sources list wins, otherwise all sources minus
// the ones the file disables.
func (c *Config) EnabledSources(all []string) []string {
	if len(c.Sources) > 0 {
		return c.Sources
	}
	out := make([]string, 0, len(all))
	for _, name := range all {
		if c.SourceOverrides.SourceOverride(name).Disabled {
			continue
		}
		out = append(out, name)
	}
	return out
}
