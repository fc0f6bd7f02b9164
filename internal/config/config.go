// Package config handles configuration for typechat.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/diogo/typechat/internal/typing"
)

// MarkdownConfig configures markdown rendering options
type MarkdownConfig struct {
	Style            string `json:"style"`              // "dark", "light", "notty", ...
	EnableEmoji      bool   `json:"enable_emoji"`       // Convert :emoji: to unicode
	PreserveNewLines bool   `json:"preserve_newlines"`  // Preserve original line breaks
	TableWrap        bool   `json:"table_wrap"`         // Enable word wrap in table cells
	InlineTableLinks bool   `json:"inline_table_links"` // Render links inline in tables
}

// TypingConfig holds the typing simulation timings, in milliseconds.
type TypingConfig struct {
	Mode            string `json:"mode"` // "chunked" or "uniform"
	ResponseDelayMS int    `json:"response_delay_ms"`
	ThinkMinMS      int    `json:"think_min_ms"`
	ThinkMaxMS      int    `json:"think_max_ms"`
	CharIntervalMS  int    `json:"char_interval_ms"`
	JitterMS        int    `json:"jitter_ms"`
	ClausePauseMS   int    `json:"clause_pause_ms"`
	SentencePauseMS int    `json:"sentence_pause_ms"`
	TagDelayMS      int    `json:"tag_delay_ms"`
}

// Config represents the user configuration
type Config struct {
	// ServerURL is the base URL the chat client fetches history from.
	ServerURL string `json:"server_url"`
	// ListenAddr is the address `typechat serve` binds to.
	ListenAddr string `json:"listen_addr"`
	// DataFile is the conversations JSON file served when no database is set.
	DataFile string `json:"data_file"`
	// DBPath selects the SQLite conversation source when non-empty.
	DBPath string `json:"db_path,omitempty"`

	RequestTimeoutSeconds int            `json:"request_timeout_seconds"`
	CopyToClipboard       bool           `json:"copy_to_clipboard"`
	TUITheme              string         `json:"tui_theme,omitempty"`
	Markdown              MarkdownConfig `json:"markdown,omitempty"`
	Typing                TypingConfig   `json:"typing"`

	LogLevel  string `json:"log_level"`          // debug, info, warn, error
	LogFormat string `json:"log_format"`         // text or json
	LogFile   string `json:"log_file,omitempty"` // defaults to <config dir>/logs/typechat.log
}

// DefaultMarkdownConfig returns the default markdown configuration
func DefaultMarkdownConfig() MarkdownConfig {
	return MarkdownConfig{
		Style:            "dark",
		EnableEmoji:      true,
		PreserveNewLines: true,
		TableWrap:        true,
		InlineTableLinks: false,
	}
}

// DefaultTypingConfig returns the default typing timings
func DefaultTypingConfig() TypingConfig {
	return TypingConfig{
		Mode:            string(typing.ModeChunked),
		ResponseDelayMS: 1000,
		ThinkMinMS:      1000,
		ThinkMaxMS:      4500,
		CharIntervalMS:  35,
		JitterMS:        25,
		ClausePauseMS:   150,
		SentencePauseMS: 350,
		TagDelayMS:      250,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		ServerURL:             "http://localhost:5000",
		ListenAddr:            "localhost:5000",
		DataFile:              filepath.Join("data", "conversations.json"),
		RequestTimeoutSeconds: 30,
		CopyToClipboard:       false,
		TUITheme:              "tokyonight",
		Markdown:              DefaultMarkdownConfig(),
		Typing:                DefaultTypingConfig(),
		LogLevel:              "info",
		LogFormat:             "text",
	}
}

// Engine converts the millisecond settings into a typing.Config. Settings left
// at zero keep the engine defaults.
func (t TypingConfig) Engine() typing.Config {
	cfg := typing.DefaultConfig()
	if t.Mode != "" {
		cfg.Mode = typing.Mode(t.Mode)
	}
	setMS(&cfg.ThinkMin, t.ThinkMinMS)
	setMS(&cfg.ThinkMax, t.ThinkMaxMS)
	setMS(&cfg.CharInterval, t.CharIntervalMS)
	setMS(&cfg.ClausePause, t.ClausePauseMS)
	setMS(&cfg.SentencePause, t.SentencePauseMS)
	setMS(&cfg.TagDelay, t.TagDelayMS)
	if t.JitterMS >= 0 {
		cfg.Jitter = time.Duration(t.JitterMS) * time.Millisecond
	}
	return cfg
}

// ResponseDelay returns the pause before a reply is generated.
func (t TypingConfig) ResponseDelay() time.Duration {
	if t.ResponseDelayMS <= 0 {
		return time.Second
	}
	return time.Duration(t.ResponseDelayMS) * time.Millisecond
}

func setMS(d *time.Duration, ms int) {
	if ms > 0 {
		*d = time.Duration(ms) * time.Millisecond
	}
}

// RequestTimeout returns the history request timeout.
func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Validate checks enumerated and numeric settings.
func (c Config) Validate() error {
	switch typing.Mode(c.Typing.Mode) {
	case typing.ModeChunked, typing.ModeUniform, "":
	default:
		return fmt.Errorf("invalid typing mode %q (want chunked or uniform)", c.Typing.Mode)
	}
	switch c.LogLevel {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.LogFormat)
	}
	if c.Typing.ThinkMinMS > 0 && c.Typing.ThinkMaxMS > 0 && c.Typing.ThinkMinMS > c.Typing.ThinkMaxMS {
		return fmt.Errorf("think_min_ms (%d) exceeds think_max_ms (%d)", c.Typing.ThinkMinMS, c.Typing.ThinkMaxMS)
	}
	return nil
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	if dir := os.Getenv(EnvPrefix + "HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(home, ".typechat"), nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return configDir, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.json"), nil
}

// GetLogPath returns the log file path, from config or the default location
func GetLogPath(cfg Config) (string, error) {
	if cfg.LogFile != "" {
		return cfg.LogFile, nil
	}
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "logs", "typechat.log"), nil
}

// LoadConfig loads the configuration from disk
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()

	configPath, err := GetConfigPath()
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if config doesn't exist
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to disk
func SaveConfig(cfg Config) error {
	configDir, err := EnsureConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.json")

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
