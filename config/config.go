// Package config loads Vahti configuration from a yaml file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/vahti/internal/tags"
)

// Config represents the main configuration
type Config struct {
	Version    string        `yaml:"version"`
	Region     string        `yaml:"region"`
	StorageDir string        `yaml:"storage_dir,omitempty"`
	TagPolicy  tags.Criteria `yaml:"tag_policy,omitempty"`
	DNS        DNS           `yaml:"dns,omitempty"`
	Daemon     Daemon        `yaml:"daemon,omitempty"`
}

// DNS holds Route53 defaults
type DNS struct {
	ZoneID string `yaml:"zone_id,omitempty"`
	TTL    int64  `yaml:"ttl,omitempty"`
}

// Daemon holds daemon mode settings
type Daemon struct {
	Interval    time.Duration `yaml:"interval,omitempty"`
	MetricsAddr string        `yaml:"metrics_addr,omitempty"`
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DNS.TTL == 0 {
		c.DNS.TTL = 300
	}
	if c.Daemon.Interval == 0 {
		c.Daemon.Interval = 5 * time.Minute
	}
	if c.Daemon.MetricsAddr == "" {
		c.Daemon.MetricsAddr = ":9090"
	}
}

// Validate ensures config has required fields
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if c.Region == "" {
		return fmt.Errorf("region is required")
	}
	if c.Daemon.Interval < 0 {
		return fmt.Errorf("daemon interval must be positive")
	}
	return nil
}
