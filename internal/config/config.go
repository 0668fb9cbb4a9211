// Package config loads run settings from an optional YAML file and
// PLACESCOUT_-prefixed environment variables. CLI flags override both.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything loadable from file or environment.
type Config struct {
	Browser BrowserConfig `mapstructure:"browser"`
	Retry   RetryConfig   `mapstructure:"retry"`
	Output  OutputConfig  `mapstructure:"output"`
}

// BrowserConfig controls the headless browser session.
type BrowserConfig struct {
	Headless  bool   `mapstructure:"headless"`
	UserAgent string `mapstructure:"user_agent"`
}

// RetryConfig controls the retry executor.
type RetryConfig struct {
	BaseDelay time.Duration `mapstructure:"base_delay"`
}

// OutputConfig controls result export.
type OutputConfig struct {
	Dir  string `mapstructure:"dir"`
	File string `mapstructure:"file"`
}

// Load reads config.yaml from the working directory if present, then
// overlays environment variables and defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("PLACESCOUT")
	v.AutomaticEnv()

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("retry.base_delay", 2*time.Second)
	v.SetDefault("output.dir", "output")
	v.SetDefault("output.file", "results.csv")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}
