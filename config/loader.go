package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/kbukum/componentkit/logger"
)

// LoaderConfig holds the loader's collaborators and explicit file choices.
type LoaderConfig struct {
	FileSystem FileSystem
	Reader     Reader
	ConfigFile string // skip the search when set
	EnvFile    string // skip the search when set
	EnvPrefix  string // e.g. COMPONENTD binds COMPONENTD_LOG_LEVEL to log_level
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the disk, mostly for tests.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithReader sets the parser for the config file and its includes.
func WithReader(r Reader) LoaderOption {
	return func(lc *LoaderConfig) { lc.Reader = r }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix namespaces environment overrides: with prefix COMPONENTD the
// key status.addr is read from COMPONENTD_STATUS_ADDR.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

func newLoaderConfig(opts []LoaderOption) LoaderConfig {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = OSFileSystem{}
	}
	if lc.Reader == nil {
		lc.Reader = ViperReader{}
	}
	return lc
}

// LoadConfig fills cfg for serviceName. The config file and its
// include_files are merged in order, then environment variables (including
// those from the .env file) override any key cfg or the files define.
// A missing or unreadable config file leaves cfg to the environment.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := newLoaderConfig(opts)
	files := (&Locator{FileSystem: lc.FileSystem}).Locate(serviceName, lc)
	log := logger.WithComponent("config")
	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		expander := &Expander{Reader: lc.Reader, FileSystem: lc.FileSystem, Log: log}
		docs, err := expander.ExpandFile(files.ConfigFile)
		if err != nil {
			log.Warn("config file not loaded", logger.Fields("file", files.ConfigFile, logger.FieldError, err.Error()))
		} else if err := Merge(v, docs); err != nil {
			return fmt.Errorf("merge config for %s: %w", serviceName, err)
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn(".env file not loaded", logger.Fields("file", files.EnvFile, logger.FieldError, err.Error()))
		}
	}

	bindEnv(v, lc.EnvPrefix, cfg)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("decode config for %s: %w", serviceName, err)
	}
	return nil
}

// bindEnv makes every key of cfg and of the merged files overridable from
// the environment. Keys nobody declared are never read from it.
func bindEnv(v *viper.Viper, prefix string, cfg any) {
	if prefix != "" {
		v.SetEnvPrefix(prefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	keys := append(structKeys(reflect.TypeOf(cfg), ""), v.AllKeys()...)
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		_ = v.BindEnv(k, envName(prefix, k))
	}
}

// envName is the variable bindEnv reads key from.
func envName(prefix, key string) string {
	name := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if prefix == "" {
		return name
	}
	return strings.ToUpper(prefix) + "_" + name
}

var durationType = reflect.TypeOf(time.Duration(0))

// structKeys lists the dotted mapstructure keys of the leaf fields of t.
// Squashed structs share their parent's prefix; slices and maps are leaves.
func structKeys(t reflect.Type, prefix string) []string {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var keys []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		if strings.Contains(opts, "squash") {
			keys = append(keys, structKeys(ft, prefix)...)
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		key := prefix + name
		if ft.Kind() == reflect.Struct && ft != durationType && ft != reflect.TypeOf(time.Time{}) {
			keys = append(keys, structKeys(ft, key+".")...)
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
