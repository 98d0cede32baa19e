// Package config loads persistent defaults for the diff tool.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Config holds defaults that apply before command line flags.
type Config struct {
	Format            string `mapstructure:"format" yaml:"format"`
	IgnoreProprietary bool   `mapstructure:"ignore_proprietary" yaml:"ignore_proprietary"`
	Full              bool   `mapstructure:"full" yaml:"full"`
	LogFormat         string `mapstructure:"log_format" yaml:"log_format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Format:    "both",
		LogFormat: "console",
	}
}

// Load reads .sbomdiff.yaml from the working directory or the user's
// home directory. Environment variables prefixed SBOMDIFF_ override
// file values. A missing config file yields the built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("format", "both")
	v.SetDefault("ignore_proprietary", false)
	v.SetDefault("full", false)
	v.SetDefault("log_format", "console")

	v.SetConfigName(".sbomdiff")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	v.SetEnvPrefix("SBOMDIFF")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Without a config file, defaults and environment still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json", "both":
	default:
		return &ConfigError{Field: "format", Message: "must be one of text, json, both"}
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return &ConfigError{Field: "log_format", Message: "must be one of console, json"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
