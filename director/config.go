package director

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kbukum/componentkit/config"
	"github.com/kbukum/componentkit/defaultlogger"
	"github.com/kbukum/componentkit/errors"
	"github.com/kbukum/componentkit/observability"
	"github.com/kbukum/componentkit/statusserver"
	"github.com/kbukum/componentkit/validation"
)

// ServiceName is the name config files and .env files are searched under.
const ServiceName = "componentd"

// Config is the director's view of a configuration file.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	ConfigDir       string               `yaml:"config_dir" mapstructure:"config_dir" json:"config_dir"`
	DataDir         string               `yaml:"data_dir" mapstructure:"data_dir" json:"data_dir"`
	LogLevel        string               `yaml:"log_level" mapstructure:"log_level" json:"log_level" validate:"omitempty,loglevel"`
	ShutdownTimeout time.Duration        `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout" json:"shutdown_timeout"`
	Telemetry       observability.Config `yaml:"telemetry" mapstructure:"telemetry" json:"telemetry"`
	Status          statusserver.Config  `yaml:"status" mapstructure:"status" json:"status"`
	Components      []ComponentSpec      `yaml:"components" mapstructure:"components" json:"components" validate:"dive"`
	IncludeFiles    []string             `yaml:"include_files" mapstructure:"include_files" json:"include_files"`
}

// ComponentSpec describes one component to build and register.
type ComponentSpec struct {
	// Name is the registered name. When empty the resolved package name is used.
	Name    string `yaml:"name" mapstructure:"name" json:"name" validate:"required_without_all=Package ConfigDir"`
	Type    string `yaml:"type" mapstructure:"type" json:"type"`
	Package string `yaml:"package" mapstructure:"package" json:"package"`
	// ConfigDir is inherited from the document that declared the component.
	ConfigDir    string         `yaml:"config_dir" mapstructure:"config_dir" json:"config_dir"`
	Dependencies []string       `yaml:"dependencies" mapstructure:"dependencies" json:"dependencies" validate:"dive,required"`
	Settings     map[string]any `yaml:"settings" mapstructure:"settings" json:"settings"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	c.Status.ApplyDefaults()
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
	if c.DataDir == "" && c.ConfigDir != "" {
		c.DataDir = filepath.Join(c.ConfigDir, "data")
	}
}

// Validate checks the service fields, struct tags and component names.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return errors.Validation(err.Error()).WithCause(err)
	}
	if c.Status.Enabled {
		if err := c.Status.Validate(); err != nil {
			return errors.Validation(err.Error()).WithCause(err)
		}
	}
	if err := validation.Validate(c); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Components))
	for _, spec := range c.Components {
		if spec.Name == "" {
			continue
		}
		if spec.Name == defaultlogger.Name || (c.Status.Enabled && spec.Name == statusserver.Name) {
			return errors.Validationf("component name %q is reserved", spec.Name)
		}
		if seen[spec.Name] {
			return errors.Validationf("duplicate component name %q", spec.Name)
		}
		seen[spec.Name] = true
	}
	return nil
}

func init() {
	levels := defaultlogger.Levels()
	_ = validation.RegisterRule("loglevel", "must be one of: "+strings.Join(levels, ", "), func(v string) bool {
		return slices.Contains(levels, v)
	})
}

// Load reads path, its includes and the environment into a validated Config.
func Load(path string, opts ...config.LoaderOption) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.NotFound("config file", path).WithCause(err)
	}

	cfg := &Config{}
	opts = append([]config.LoaderOption{config.WithConfigFile(path)}, opts...)
	if err := config.LoadConfig(ServiceName, cfg, opts...); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
