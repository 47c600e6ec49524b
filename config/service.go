package config

import (
	"fmt"

	"github.com/audioscribe/audioscribe/logger"
)

// ServiceConfig holds the common service-level settings every binary shares.
type ServiceConfig struct {
	Name        string        `mapstructure:"name" yaml:"name"`
	Environment string        `mapstructure:"environment" yaml:"environment"`
	Version     string        `mapstructure:"version" yaml:"version"`
	Debug       bool          `mapstructure:"debug" yaml:"debug"`
	Logging     logger.Config `mapstructure:"logging" yaml:"logging"`
}

// ApplyDefaults fills zero-valued fields with sane defaults.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "audioscribe"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	c.Logging.ApplyDefaults()
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	if c.Debug && c.Logging.Level == "info" {
		c.Logging.Level = "debug"
	}
}

// Validate checks the configuration for invalid values.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("service name is required")
	}
	switch c.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}
	return c.Logging.Validate()
}

// IsProduction reports whether the service runs in production mode.
func (c *ServiceConfig) IsProduction() bool {
	return c.Environment == "production"
}
