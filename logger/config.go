package logger

import (
	"fmt"
	"slices"
)

// Accepted values for the logging section.
var (
	Levels  = []string{"trace", "debug", "info", "warn", "error", "disabled"}
	Formats = []string{"json", "console", FormatPretty}
	Outputs = []string{"stdout", "stderr"}
)

// Config is the logging section of a componentkit config file. It drives the
// operational zerolog logger, not the default logger component.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level"`
	Format    string `yaml:"format" mapstructure:"format"`
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults selects info level console output on stderr, timestamped.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate rejects values outside Levels, Formats and Outputs.
func (c *Config) Validate() error {
	for _, check := range []struct {
		key, value string
		allowed    []string
	}{
		{"level", c.Level, Levels},
		{"format", c.Format, Formats},
		{"output", c.Output, Outputs},
	} {
		if !slices.Contains(check.allowed, check.value) {
			return fmt.Errorf("logging.%s must be one of %v (got: %s)", check.key, check.allowed, check.value)
		}
	}
	return nil
}
