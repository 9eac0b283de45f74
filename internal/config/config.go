// Package config handles configuration loading and validation for blogdash.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBlogAPIURL     = "http://localhost:5000/api/blogs"
	DefaultAuthAPIURL     = "http://localhost:5000/api/auth"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxVisible     = 5
)

// Config holds the application configuration.
type Config struct {
	BlogAPIURL     string        `yaml:"blog_api_url"`
	AuthAPIURL     string        `yaml:"auth_api_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	CheckUpdates   bool          `yaml:"check_updates"`
	Toast          ToastConfig   `yaml:"toast"`
	DataDir        string        `yaml:"-"` // set by caller, not from config file
}

// ToastConfig controls notification timing and layout. A lifetime of zero
// keeps toasts until they are dismissed.
type ToastConfig struct {
	DefaultLifetime time.Duration `yaml:"default_lifetime"`
	ErrorLifetime   time.Duration `yaml:"error_lifetime"`
	MaxVisible      int           `yaml:"max_visible"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		BlogAPIURL:     DefaultBlogAPIURL,
		AuthAPIURL:     DefaultAuthAPIURL,
		RequestTimeout: DefaultRequestTimeout,
		CheckUpdates:   true,
		Toast: ToastConfig{
			DefaultLifetime: 3 * time.Second,
			ErrorLifetime:   5 * time.Second,
			MaxVisible:      DefaultMaxVisible,
		},
	}
}

// Load reads the config file at configPath over the defaults. A missing file
// is not an error.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BlogAPIURL == "" {
		c.BlogAPIURL = DefaultBlogAPIURL
	}
	if c.AuthAPIURL == "" {
		c.AuthAPIURL = DefaultAuthAPIURL
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.Toast.MaxVisible == 0 {
		c.Toast.MaxVisible = DefaultMaxVisible
	}
}

// SessionFile returns the path of the stored session.
func (c *Config) SessionFile() string {
	return filepath.Join(c.DataDir, "session.yaml")
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "blogdash.log")
}

// DefaultConfigPath returns ~/.config/blogdash/config.yaml, honoring
// XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "blogdash", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".blogdash", "config.yaml")
	}
	return filepath.Join(home, ".config", "blogdash", "config.yaml")
}

// DefaultDataDir returns ~/.local/share/blogdash, honoring XDG_DATA_HOME.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "blogdash")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".blogdash"
	}
	return filepath.Join(home, ".local", "share", "blogdash")
}
