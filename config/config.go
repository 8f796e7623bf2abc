// Package config loads swiftls settings from defaults, an optional YAML file
// and SWIFTLS_ prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "SWIFTLS"
	// Looked up in the working directory and the home directory when no
	// config file is given.
	DefaultConfigName = ".swiftls"
)

// Config holds all application configuration.
type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Format      FormatConfig      `mapstructure:"format"`
	Index       IndexConfig       `mapstructure:"index"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
}

type LogConfig struct {
	// One of debug, info, warn or error.
	Level string `mapstructure:"level"`
	// Log file path. Stdout carries protocol traffic so the server never logs
	// there, an empty path disables logging.
	File string `mapstructure:"file"`
}

type FormatConfig struct {
	IndentWidth            int  `mapstructure:"indent_width"`
	TrimTrailingWhitespace bool `mapstructure:"trim_trailing_whitespace"`
}

type IndexConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// SQLite database path, empty keeps the index in memory.
	Path    string   `mapstructure:"path"`
	Exclude []string `mapstructure:"exclude"`
}

type DiagnosticsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("format.indent_width", 4)
	v.SetDefault("format.trim_trailing_whitespace", true)
	v.SetDefault("index.enabled", true)
	v.SetDefault("index.path", "")
	v.SetDefault("index.exclude", []string{})
	v.SetDefault("diagnostics.enabled", true)
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Unmarshalling defaults into a plain struct cannot fail.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration from path, or from .swiftls.yaml in the working or
// home directory when path is empty. A missing default config file is not an
// error, a missing explicit one is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	if _, err := ParseLevel(c.Log.Level); err != nil {
		warnings = append(warnings, err.Error())
	}
	if c.Format.IndentWidth <= 0 || c.Format.IndentWidth > 16 {
		warnings = append(warnings, fmt.Sprintf("format indent_width %d is outside range [1, 16]", c.Format.IndentWidth))
	}
	if !c.Index.Enabled && c.Index.Path != "" {
		warnings = append(warnings, "index path is set but the index is disabled")
	}
	return warnings
}

// ParseLevel converts a configured level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}
