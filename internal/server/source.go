package server

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/diogo/typechat/internal/history"
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/storage/sqlite"
)

// Source supplies the conversations served by /api/conversations.
type Source interface {
	Conversations(ctx context.Context) (models.History, error)
}

// DefaultDebounce is how long the file source waits after the last change
// before reloading.
const DefaultDebounce = 200 * time.Millisecond

// FileSource serves a conversations data file, cached in memory.
// A missing or invalid file is logged and served as an empty history.
type FileSource struct {
	store  *history.Store
	logger *slog.Logger

	mu      sync.RWMutex
	history models.History
	loaded  chan struct{} // signalled after every reload, for tests
}

// NewFileSource loads the data file at path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &FileSource{
		store:  history.NewStore(path).WithLogger(logger),
		logger: logger,
		loaded: make(chan struct{}, 1),
	}
	s.Reload()
	return s
}

// Path returns the watched data file
func (s *FileSource) Path() string {
	return s.store.Path()
}

// Conversations returns the cached history
func (s *FileSource) Conversations(ctx context.Context) (models.History, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history, nil
}

// Reload rereads the data file.
func (s *FileSource) Reload() {
	h, err := s.store.Load()
	if err != nil {
		s.logger.Error("error loading conversations", "path", s.store.Path(), "error", err)
		h = models.History{}
	} else {
		s.logger.Info("conversations loaded", "path", s.store.Path(), "count", len(h))
	}

	s.mu.Lock()
	s.history = h
	s.mu.Unlock()

	select {
	case s.loaded <- struct{}{}:
	default:
	}
}

// Watch reloads the data file whenever it changes until ctx is cancelled.
// The parent directory is watched so editors that replace the file by rename
// are picked up.
func (s *FileSource) Watch(ctx context.Context, debounce time.Duration) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	path := filepath.Clean(s.store.Path())
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	go s.processEvents(ctx, watcher, path, debounce)
	return nil
}

func (s *FileSource) processEvents(ctx context.Context, watcher *fsnotify.Watcher, path string, debounce time.Duration) {
	defer watcher.Close()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Debug("data file changed", "op", event.Op.String())
			timer.Reset(debounce)

		case <-timer.C:
			s.Reload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("file watcher error", "error", err)
		}
	}
}

// SQLiteSource serves conversations from a SQLite database.
type SQLiteSource struct {
	store *sqlite.Store
}

// NewSQLiteSource wraps an open store
func NewSQLiteSource(store *sqlite.Store) *SQLiteSource {
	return &SQLiteSource{store: store}
}

// Conversations loads the full history from the database
func (s *SQLiteSource) Conversations(ctx context.Context) (models.History, error) {
	return s.store.LoadHistory(ctx)
}
