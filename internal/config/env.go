package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable typechat reads.
const EnvPrefix = "TYPECHAT_"

// LoadEnvFiles loads KEY=VALUE pairs from the given .env files into the
// process environment. Variables already set are not overridden and missing
// files are ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}

// ApplyEnv overrides file settings with TYPECHAT_* environment variables.
func ApplyEnv(cfg *Config) {
	cfg.ServerURL = getenv("SERVER_URL", cfg.ServerURL)
	cfg.ListenAddr = getenv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataFile = getenv("DATA_FILE", cfg.DataFile)
	cfg.DBPath = getenv("DB_PATH", cfg.DBPath)
	cfg.TUITheme = getenv("THEME", cfg.TUITheme)
	cfg.Markdown.Style = getenv("MARKDOWN_STYLE", cfg.Markdown.Style)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = getenv("LOG_FILE", cfg.LogFile)
	cfg.RequestTimeoutSeconds = getenvInt("REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeoutSeconds)
	cfg.CopyToClipboard = getenvBool("COPY_TO_CLIPBOARD", cfg.CopyToClipboard)
	cfg.Typing.Mode = getenv("TYPING_MODE", cfg.Typing.Mode)
	cfg.Typing.ResponseDelayMS = getenvInt("RESPONSE_DELAY_MS", cfg.Typing.ResponseDelayMS)
}

// Load reads the .env file, the config file and the environment, in that
// order of increasing precedence.
func Load() (Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return DefaultConfig(), err
	}
	cfg, err := LoadConfig()
	ApplyEnv(&cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func getenv(name, fallback string) string {
	if value := os.Getenv(EnvPrefix + name); value != "" {
		return value
	}
	return fallback
}

func getenvInt(name string, fallback int) int {
	value := os.Getenv(EnvPrefix + name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(name string, fallback bool) bool {
	value := os.Getenv(EnvPrefix + name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}
