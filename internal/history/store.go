// Package history reads, writes and exports conversation data files.
//
// A data file holds the same document the server returns from
// /api/conversations: {"conversations": [[message, ...], ...]}.
package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	apierrors "github.com/diogo/typechat/internal/errors"
	"github.com/diogo/typechat/internal/models"
)

// Store manages one conversations data file
type Store struct {
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewStore creates a store for the data file at path. The file need not exist.
func NewStore(path string) *Store {
	return &Store{path: path, logger: slog.New(slog.DiscardHandler)}
}

// WithLogger sets the logger that receives warnings about skipped entries.
func (s *Store) WithLogger(logger *slog.Logger) *Store {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Path returns the data file location
func (s *Store) Path() string {
	return s.path
}

// Load reads the data file. A missing file wraps errors.ErrNotFound; a file
// that is not a valid conversations document is a *errors.ParseError.
func (s *Store) Load() (models.History, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load()
}

// Save replaces the data file contents with history
func (s *Store) Save(history models.History) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(history)
}

// Append adds conversations to the end of the data file, creating it if
// needed, and returns the new total.
func (s *Store) Append(conversations models.History) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.load()
	if err != nil && !apierrors.IsNotFound(err) {
		return 0, err
	}
	history = append(history, conversations...)
	if err := s.save(history); err != nil {
		return 0, err
	}
	return len(history), nil
}

// Internal methods

func (s *Store) load() (models.History, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apierrors.ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}
	return Decode(data, s.path, s.logger)
}

func (s *Store) save(history models.History) error {
	data, err := Encode(history)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	// Write to a sibling temp file and rename so watchers never see a
	// half-written document.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".conversations-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write data file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace data file: %w", err)
	}
	return nil
}

// Decode parses a conversations document. path is only used in errors and
// log records.
//
// Decoding follows the same rules as api.ParseHistory: a missing or null
// "conversations" key is an empty history, messages with an unknown role are
// skipped, and a conversation that is not an array is a *errors.ParseError.
// Null conversations are skipped as well so they never reach clients.
func Decode(data []byte, path string, logger *slog.Logger) (models.History, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var payload struct {
		Conversations []json.RawMessage `json:"conversations"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, apierrors.NewParseError(err.Error(), path)
	}

	history := models.History{}
	for i, raw := range payload.Conversations {
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			logger.Warn("skipping null conversation", "path", path, "conversation", i)
			continue
		}

		var msgs []models.Message
		if err := json.Unmarshal(raw, &msgs); err != nil {
			return nil, apierrors.NewParseError(fmt.Sprintf("conversation %d: %v", i, err), path)
		}

		conv := models.NewConversation()
		for j, msg := range msgs {
			if !msg.Role.Valid() {
				logger.Warn("skipping message with unknown role",
					"path", path, "conversation", i, "message", j, "role", msg.Role)
				continue
			}
			conv.Append(msg)
		}
		history = append(history, conv)
	}
	return history, nil
}

// Encode renders a conversations document, indented like the original files.
func Encode(history models.History) ([]byte, error) {
	data, err := json.MarshalIndent(models.HistoryPayload{Conversations: history}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversations: %w", err)
	}
	return append(data, '\n'), nil
}
