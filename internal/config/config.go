// Package config loads plume settings from plume.yml, PLUME_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/firebird-suite/plume/internal/filesystem"
	"github.com/simonhull/firebird-suite/plume/internal/manifest"
	"github.com/simonhull/firebird-suite/plume/pkg/logger"
)

// FileName is the config file searched for in the working directory
const FileName = "plume.yml"

// EnvPrefix prefixes environment overrides, e.g. PLUME_OUTPUT
const EnvPrefix = "PLUME"

// Config represents plume.yml
type Config struct {
	Inputs     []string `mapstructure:"inputs" yaml:"inputs"`
	Output     string   `mapstructure:"output" yaml:"output,omitempty"`
	Format     string   `mapstructure:"format" yaml:"format,omitempty"` // json, yaml, or empty to follow the output extension
	Debug      bool     `mapstructure:"debug" yaml:"debug"`
	LogLevel   string   `mapstructure:"log_level" yaml:"log_level"`
	Workers    int      `mapstructure:"workers" yaml:"workers"`
	Include    []string `mapstructure:"include" yaml:"include"`
	Ignore     []string `mapstructure:"ignore" yaml:"ignore,omitempty"`
	IgnoreDirs []string `mapstructure:"ignore_dirs" yaml:"ignore_dirs,omitempty"`
}

// Default returns a config with sensible defaults
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Include:  append([]string(nil), filesystem.DefaultIncludePatterns...),
	}
}

// NewViper returns a viper instance preloaded with defaults and env bindings.
// Commands bind their flags onto it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	d := Default()

	v.SetDefault("inputs", d.Inputs)
	v.SetDefault("output", d.Output)
	v.SetDefault("format", d.Format)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("include", d.Include)
	v.SetDefault("ignore", d.Ignore)
	v.SetDefault("ignore_dirs", d.IgnoreDirs)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file into v and decodes the result.
// An empty path searches for plume.yml in the working directory; a missing
// file is not an error unless path was given explicitly.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ValidationError represents a config validation error with context
type ValidationError struct {
	Field      string
	Message    string
	Suggestion string
}

// Error returns a formatted error message
func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	if e.Suggestion != "" {
		msg += fmt.Sprintf(". Suggestion: %s", e.Suggestion)
	}
	return msg
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error returns all validation errors formatted with clear separation
func (e ValidationErrors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "found %d config errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// Validate checks field values
func (c *Config) Validate() error {
	var errs ValidationErrors

	if _, err := manifest.ParseFormat(c.Format); err != nil {
		errs = append(errs, ValidationError{Field: "format", Message: err.Error(), Suggestion: "use json or yaml"})
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "log_level", Message: err.Error(), Suggestion: "use debug, info, warn, error or silent"})
	}
	if c.Workers < 0 {
		errs = append(errs, ValidationError{Field: "workers", Message: "must not be negative", Suggestion: "use 0 for one worker per CPU"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Level returns the effective log level; Debug forces LevelDebug.
func (c *Config) Level() logger.Level {
	if c.Debug {
		return logger.LevelDebug
	}
	level, err := logger.ParseLevel(c.LogLevel)
	if err != nil {
		return logger.LevelInfo
	}
	return level
}

// WalkOptions returns directory traversal settings
func (c *Config) WalkOptions() filesystem.WalkOptions {
	return filesystem.WalkOptions{
		IncludePatterns: c.Include,
		IgnorePatterns:  c.Ignore,
		IgnoreDirs:      c.IgnoreDirs,
	}
}

// Marshal renders the config as plume.yml content
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Save writes the config to path
func (c *Config) Save(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
