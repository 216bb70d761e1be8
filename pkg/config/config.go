package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	User    UserConfig    `mapstructure:"user"`
	Chat    ChatConfig    `mapstructure:"chat"`
	TTS     TTSConfig     `mapstructure:"tts"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BackendConfig holds connection settings for the BrickChat backend
type BackendConfig struct {
	URL        string        `mapstructure:"url"`
	Timeout    time.Duration `mapstructure:"-"`
	TimeoutStr string        `mapstructure:"timeout"` // For parsing string duration
}

// UserConfig identifies the local user to the backend
type UserConfig struct {
	ID string `mapstructure:"id"`
}

// ChatConfig holds chat behavior settings
type ChatConfig struct {
	StreamResults bool   `mapstructure:"stream_results"`
	EagerMode     bool   `mapstructure:"eager_mode"`
	HistoryFile   string `mapstructure:"history_file"`
}

// TTSConfig holds text-to-speech settings
type TTSConfig struct {
	Voice string `mapstructure:"voice"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	LogFile string `mapstructure:"log_file"`
	Persist bool   `mapstructure:"persist"`
	Level   string `mapstructure:"level"`
}

// Global config instance
var cfg *Config

// Get returns the global config instance
func Get() *Config {
	if cfg == nil {
		panic("config not initialized")
	}
	return cfg
}

// Load loads configuration from file and environment
func Load(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome == "" {
			xdgConfigHome = filepath.Join(home, ".config")
		}

		viper.AddConfigPath("./.brickchat") // Check project directory first
		viper.AddConfigPath(filepath.Join(xdgConfigHome, ".brickchat"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("settings")
	}

	viper.AutomaticEnv()

	// Missing config file is fine; defaults and environment cover it
	_ = viper.ReadInConfig()

	cfg = &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Post-process durations (viper doesn't handle time.Duration directly)
	if err := processDurations(cfg); err != nil {
		return nil, fmt.Errorf("failed to process durations: %w", err)
	}

	return cfg, nil
}

// processDurations parses string duration fields into time.Duration
func processDurations(c *Config) error {
	if c.Backend.TimeoutStr == "" {
		c.Backend.Timeout = 90 * time.Second
		return nil
	}
	d, err := time.ParseDuration(c.Backend.TimeoutStr)
	if err != nil {
		return fmt.Errorf("invalid backend.timeout %q: %w", c.Backend.TimeoutStr, err)
	}
	c.Backend.Timeout = d
	return nil
}

// Set replaces the global config instance. Intended for tests.
func Set(c *Config) {
	cfg = c
}
