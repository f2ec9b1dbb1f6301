package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL       = "http://localhost:5000"
	DefaultTimeout         = 30 * time.Second
	DefaultRefreshSchedule = "@every 1m"
)

// Config holds user preferences
type Config struct {
	ServerURL       string        `yaml:"server_url" json:"server_url"`             // Base URL of the task API
	Timeout         time.Duration `yaml:"timeout" json:"timeout"`                   // Per-request timeout
	ConfirmDelete   bool          `yaml:"confirm_delete" json:"confirm_delete"`     // Require confirmation for delete
	RefreshSchedule string        `yaml:"refresh_schedule" json:"refresh_schedule"` // Cron spec for background refetch, empty disables
	WeekStart       string        `yaml:"week_start" json:"week_start"`             // "monday" or "sunday"

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	logPath := ""
	if dir, err := Dir(); err == nil {
		logPath = filepath.Join(dir, "logs", "taskcal.log")
	}

	return &Config{
		ServerURL:       DefaultServerURL,
		Timeout:         DefaultTimeout,
		ConfirmDelete:   true,
		RefreshSchedule: DefaultRefreshSchedule,
		WeekStart:       "monday",
		LogLevel:        "INFO",
		LogFile:         logPath,
		LogConsole:      false,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Dir returns ~/.taskcal
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskcal"), nil
}

// Path returns ~/.taskcal/config.yaml
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads config from ~/.taskcal/config.yaml. Environment variables
// override file values.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFile loads ~/.taskcal/config.yaml over the defaults without looking at
// the environment. Use it for values that will be saved back.
func LoadFile() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	return cfg, nil
}

// ApplyEnv overrides values set in TASKCAL_* variables
func (c *Config) ApplyEnv() {
	c.ServerURL = getEnv("TASKCAL_SERVER_URL", c.ServerURL)
	c.LogLevel = getEnv("TASKCAL_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("TASKCAL_LOG_FILE", c.LogFile)
	if v := os.Getenv("TASKCAL_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true" || v == "1"
	}
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server_url %q", c.ServerURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url must be http or https, got %q", u.Scheme)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	switch strings.ToLower(c.WeekStart) {
	case "", "monday", "sunday":
	default:
		return fmt.Errorf("week_start must be monday or sunday, got %q", c.WeekStart)
	}
	return nil
}

// RequestTimeout returns the configured timeout or the default
func (c *Config) RequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// WeekStartsSunday reports whether the calendar week begins on Sunday
func (c *Config) WeekStartsSunday() bool {
	return strings.EqualFold(c.WeekStart, "sunday")
}

// Save saves config to ~/.taskcal/config.yaml
func (c *Config) Save() error {
	configDir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
