package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKCAL_SERVER_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("Expected default server, got %q", cfg.ServerURL)
	}
	if cfg.RequestTimeout() != 30*time.Second {
		t.Errorf("Expected 30s timeout, got %v", cfg.RequestTimeout())
	}
	if cfg.RefreshSchedule != "@every 1m" {
		t.Errorf("Expected default schedule, got %q", cfg.RefreshSchedule)
	}
	if !cfg.ConfirmDelete {
		t.Error("Expected delete confirmation on by default")
	}
}

func TestSaveAndLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("TASKCAL_SERVER_URL", "")
	t.Setenv("TASKCAL_LOG_LEVEL", "")

	cfg := DefaultConfig()
	cfg.ServerURL = "https://tasks.example.com"
	cfg.Timeout = 5 * time.Second
	cfg.RefreshSchedule = ""
	cfg.WeekStart = "sunday"
	cfg.LogLevel = "DEBUG"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(home, ".taskcal", "config.yaml")); err != nil {
		t.Fatalf("Expected config file: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.ServerURL != "https://tasks.example.com" {
		t.Errorf("Expected saved server, got %q", loaded.ServerURL)
	}
	if loaded.Timeout != 5*time.Second {
		t.Errorf("Expected 5s, got %v", loaded.Timeout)
	}
	if loaded.RefreshSchedule != "" {
		t.Errorf("Expected refresh disabled, got %q", loaded.RefreshSchedule)
	}
	if !loaded.WeekStartsSunday() {
		t.Error("Expected week to start on sunday")
	}
	if loaded.LogLevel != "DEBUG" {
		t.Errorf("Expected DEBUG, got %q", loaded.LogLevel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".taskcal")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data := "server_url: http://from-file:5000\nlog_level: WARN\ntimeout: 10s\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("TASKCAL_SERVER_URL", "http://from-env:8080")
	t.Setenv("TASKCAL_LOG_LEVEL", "")
	t.Setenv("TASKCAL_LOG_CONSOLE", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ServerURL != "http://from-env:8080" {
		t.Errorf("Expected env server, got %q", cfg.ServerURL)
	}
	if cfg.LogLevel != "WARN" {
		t.Errorf("Expected file log level, got %q", cfg.LogLevel)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("Expected 10s timeout, got %v", cfg.Timeout)
	}
	if !cfg.LogConsole {
		t.Error("Expected console logging from env")
	}

	stored, err := LoadFile()
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if stored.ServerURL != "http://from-file:5000" || stored.LogConsole {
		t.Errorf("Expected file values only, got %+v", stored)
	}
	stored.ApplyEnv()
	if stored.ServerURL != "http://from-env:8080" {
		t.Errorf("Expected ApplyEnv to override server, got %q", stored.ServerURL)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".taskcal")
	os.MkdirAll(dir, 0755)
	os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server_url: [unclosed"), 0644)

	if _, err := Load(); err == nil {
		t.Error("Expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"no scheme", func(c *Config) { c.ServerURL = "localhost:5000" }, true},
		{"ftp", func(c *Config) { c.ServerURL = "ftp://host" }, true},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, true},
		{"bad week start", func(c *Config) { c.WeekStart = "friday" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
