package statusserver

import (
	"fmt"
	"net"
)

// Config holds status server configuration.
type Config struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled" json:"enabled"`
	Addr         string `yaml:"addr" mapstructure:"addr" json:"addr"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout" json:"read_timeout"`    // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout" json:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout" json:"idle_timeout"`    // seconds
	DrainTimeout int    `yaml:"drain_timeout" mapstructure:"drain_timeout" json:"drain_timeout"` // seconds
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:8089"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
	if c.DrainTimeout == 0 {
		c.DrainTimeout = 5
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("status.addr must be host:port (got: %s)", c.Addr)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.IdleTimeout < 0 || c.DrainTimeout < 0 {
		return fmt.Errorf("status timeouts must be non-negative")
	}
	return nil
}
