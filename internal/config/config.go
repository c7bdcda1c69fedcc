// Package config loads forkjoin settings from defaults, an optional YAML
// file, FORKJOIN_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/kolkov/forkjoin/internal/version"
)

// EnvPrefix is prepended to every environment variable, e.g.
// FORKJOIN_LOG_LEVEL for log.level.
const EnvPrefix = "FORKJOIN"

// ErrIncompatible is returned when the configuration requires a newer
// forkjoin than the running binary.
var ErrIncompatible = errors.New("incompatible forkjoin version")

// Config is the complete forkjoin configuration.
type Config struct {
	// MaxThreads caps the thread count accepted on the command line.
	MaxThreads int `mapstructure:"max_threads"`
	// Schedule is the default loop schedule, e.g. "static" or "dynamic,4".
	Schedule string `mapstructure:"schedule"`
	// Metrics dumps the Prometheus registry to stderr after each command.
	Metrics bool `mapstructure:"metrics"`
	// Requires is the minimum forkjoin version this configuration needs.
	Requires string `mapstructure:"requires"`

	Log   LogConfig   `mapstructure:"log"`
	Audit AuditConfig `mapstructure:"audit"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format is "text" or "json"
	Format string `mapstructure:"format"`
}

// AuditConfig controls the audit command
type AuditConfig struct {
	// Variant is the default exercise variant: "buggy" or "solution"
	Variant string `mapstructure:"variant"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		MaxThreads: 256,
		Schedule:   "static",
		Metrics:    false,
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Audit: AuditConfig{
			Variant: "buggy",
		},
	}
}

// SetDefaults registers the defaults with viper.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("max_threads", defaults.MaxThreads)
	viper.SetDefault("schedule", defaults.Schedule)
	viper.SetDefault("metrics", defaults.Metrics)
	viper.SetDefault("requires", defaults.Requires)

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)

	viper.SetDefault("audit.variant", defaults.Audit.Variant)
}

// Init prepares viper: defaults, config file search path, environment.
// cfgFile, when set, is the only file read. A missing default config file
// is not an error; an unreadable explicit one is.
func Init(cfgFile string) error {
	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(Dir())
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// Load reads the configuration from viper into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	if err := cfg.CheckCompatible(version.Version); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// CheckCompatible returns ErrIncompatible if Requires is newer than current.
func (c *Config) CheckCompatible(current string) error {
	if c.Requires == "" {
		return nil
	}
	if !version.AtLeast(current, c.Requires) {
		return fmt.Errorf("%w: config requires %s, running %s", ErrIncompatible, c.Requires, current)
	}
	return nil
}

// Dir returns the user's forkjoin config directory
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "forkjoin")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".forkjoin"
	}
	return filepath.Join(home, ".config", "forkjoin")
}
