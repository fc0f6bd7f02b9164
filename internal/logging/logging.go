// Package logging configures slog with a rotating log file. The chat TUI owns
// the terminal, so logs never go to stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/diogo/typechat/internal/config"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 5
	maxLogAgeDays = 14
)

// Init configures slog to write structured logs to the configured log file.
// When console is non-nil every record is also written there as text, which
// `typechat serve` uses for stderr. The returned closer releases the file.
func Init(cfg config.Config, console io.Writer) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.LogLevel)
	handlerOptions := &slog.HandlerOptions{Level: level}

	logPath, err := config.GetLogPath(cfg)
	if err == nil {
		err = os.MkdirAll(filepath.Dir(logPath), 0o700)
	}
	if err != nil {
		var out io.Writer = io.Discard
		if console != nil {
			out = console
		}
		logger := slog.New(newHandler(cfg.LogFormat, out, handlerOptions))
		slog.SetDefault(logger)
		return logger, nopCloser{}, err
	}

	writer := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		MaxAge:     maxLogAgeDays,
		Compress:   true,
	}

	handler := newHandler(cfg.LogFormat, writer, handlerOptions)
	if console != nil {
		handler = fanout{handler, slog.NewTextHandler(console, handlerOptions)}
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger, writer, nil
}

// ParseLevel maps a config level name to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newHandler(format string, out io.Writer, opts *slog.HandlerOptions) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return slog.NewJSONHandler(out, opts)
	default:
		return slog.NewTextHandler(out, opts)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
