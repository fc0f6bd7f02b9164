package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diogo/typechat/internal/typing"
)

// withHome points HOME at a temp dir and clears TYPECHAT_HOME.
func withHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv(EnvPrefix+"HOME", "")
	return tmpDir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ServerURL != "http://localhost:5000" {
		t.Errorf("Expected ServerURL 'http://localhost:5000', got '%s'", cfg.ServerURL)
	}
	if cfg.DataFile != filepath.Join("data", "conversations.json") {
		t.Errorf("Unexpected DataFile '%s'", cfg.DataFile)
	}
	if cfg.Typing.Mode != "chunked" {
		t.Errorf("Expected typing mode 'chunked', got '%s'", cfg.Typing.Mode)
	}
	if cfg.CopyToClipboard {
		t.Error("Expected CopyToClipboard to be false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() is invalid: %v", err)
	}
}

func TestTypingConfig_Engine(t *testing.T) {
	// Defaults match the engine defaults exactly.
	if got, want := DefaultTypingConfig().Engine(), typing.DefaultConfig(); got != want {
		t.Errorf("Engine() = %+v, want %+v", got, want)
	}

	tc := TypingConfig{Mode: "uniform", CharIntervalMS: 50, JitterMS: 0, TagDelayMS: 100}
	cfg := tc.Engine()
	if cfg.Mode != typing.ModeUniform {
		t.Errorf("Mode = %s", cfg.Mode)
	}
	if cfg.CharInterval != 50*time.Millisecond {
		t.Errorf("CharInterval = %v", cfg.CharInterval)
	}
	if cfg.Jitter != 0 {
		t.Errorf("Jitter = %v, want 0", cfg.Jitter)
	}
	if cfg.TagDelay != 100*time.Millisecond {
		t.Errorf("TagDelay = %v", cfg.TagDelay)
	}
	if cfg.ThinkMax != typing.DefaultConfig().ThinkMax {
		t.Errorf("unset ThinkMax changed to %v", cfg.ThinkMax)
	}
}

func TestTypingConfig_ResponseDelay(t *testing.T) {
	if d := (TypingConfig{}).ResponseDelay(); d != time.Second {
		t.Errorf("zero ResponseDelay() = %v, want 1s", d)
	}
	if d := (TypingConfig{ResponseDelayMS: 250}).ResponseDelay(); d != 250*time.Millisecond {
		t.Errorf("ResponseDelay() = %v, want 250ms", d)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "uniform mode", mutate: func(c *Config) { c.Typing.Mode = "uniform" }},
		{name: "bad mode", mutate: func(c *Config) { c.Typing.Mode = "fast" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "bad log format", mutate: func(c *Config) { c.LogFormat = "xml" }, wantErr: true},
		{
			name: "think min above max",
			mutate: func(c *Config) {
				c.Typing.ThinkMinMS = 5000
				c.Typing.ThinkMaxMS = 1000
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetConfigDir(t *testing.T) {
	home := withHome(t)

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() returned error: %v", err)
	}
	if dir != filepath.Join(home, ".typechat") {
		t.Errorf("GetConfigDir() = %s", dir)
	}

	t.Setenv(EnvPrefix+"HOME", "/srv/typechat")
	dir, _ = GetConfigDir()
	if dir != "/srv/typechat" {
		t.Errorf("GetConfigDir() with TYPECHAT_HOME = %s", dir)
	}
}

func TestGetLogPath(t *testing.T) {
	home := withHome(t)

	path, err := GetLogPath(DefaultConfig())
	if err != nil {
		t.Fatalf("GetLogPath() returned error: %v", err)
	}
	if path != filepath.Join(home, ".typechat", "logs", "typechat.log") {
		t.Errorf("GetLogPath() = %s", path)
	}

	cfg := DefaultConfig()
	cfg.LogFile = "/tmp/custom.log"
	if path, _ := GetLogPath(cfg); path != "/tmp/custom.log" {
		t.Errorf("GetLogPath() = %s, want /tmp/custom.log", path)
	}
}

func TestEnsureConfigDir(t *testing.T) {
	withHome(t)

	dir, err := EnsureConfigDir()
	if err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Directory does not exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("Path is not a directory")
	}
	if perm := info.Mode().Perm(); perm != 0o700 {
		t.Errorf("Directory permissions = %o, want 700", perm)
	}
}

func TestLoadConfig_FileNotExists(t *testing.T) {
	withHome(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig() = %+v, want defaults", cfg)
	}
}

func TestSaveConfig(t *testing.T) {
	home := withHome(t)

	cfg := DefaultConfig()
	cfg.ServerURL = "http://chat.internal:8080"
	cfg.Typing.Mode = "uniform"
	cfg.CopyToClipboard = true

	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	configPath := filepath.Join(home, ".typechat", "config.json")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	var saved Config
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("Failed to parse saved config: %v", err)
	}
	if saved != cfg {
		t.Errorf("saved = %+v, want %+v", saved, cfg)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("Failed to stat config file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("File permissions = %o, want 600", perm)
	}
}

func TestLoadConfig_WithExistingFile(t *testing.T) {
	home := withHome(t)

	configDir := filepath.Join(home, ".typechat")
	_ = os.MkdirAll(configDir, 0o755)

	// Partial file: unset keys keep their defaults.
	partial := `{"server_url": "http://10.0.0.2:5000", "typing": {"mode": "uniform"}}`
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(partial), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}
	if cfg.ServerURL != "http://10.0.0.2:5000" {
		t.Errorf("ServerURL = %s", cfg.ServerURL)
	}
	if cfg.Typing.Mode != "uniform" {
		t.Errorf("Typing.Mode = %s", cfg.Typing.Mode)
	}
	if cfg.Typing.CharIntervalMS != 35 {
		t.Errorf("Typing.CharIntervalMS = %d, want default 35", cfg.Typing.CharIntervalMS)
	}
	if cfg.ListenAddr != "localhost:5000" {
		t.Errorf("ListenAddr = %s, want default", cfg.ListenAddr)
	}
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	home := withHome(t)

	configDir := filepath.Join(home, ".typechat")
	_ = os.MkdirAll(configDir, 0o755)
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"invalid": json content`), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfig()
	if err == nil {
		t.Error("LoadConfig() with invalid JSON should return error")
	}
	if cfg != DefaultConfig() {
		t.Error("LoadConfig() should return the defaults on error")
	}
}
