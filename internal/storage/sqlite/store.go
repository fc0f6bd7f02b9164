// Package sqlite stores conversation history in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/diogo/typechat/internal/models"
)

// Store is a SQLite-backed conversation history
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	database, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	database.SetMaxOpenConns(1)
	database.SetConnMaxLifetime(0)

	store := &Store{db: database, now: func() time.Time { return time.Now().UTC() }}
	if err := store.migrate(context.Background()); err != nil {
		database.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
PRAGMA journal_mode=WAL;
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS conversations (
  id TEXT PRIMARY KEY,
  position INTEGER NOT NULL,
  created_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_conversations_position ON conversations(position);

CREATE TABLE IF NOT EXISTS messages (
  id TEXT PRIMARY KEY,
  conversation_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('user', 'system')),
  content TEXT NOT NULL,
  categories TEXT,
  created_at DATETIME NOT NULL,
  FOREIGN KEY(conversation_id) REFERENCES conversations(id) ON DELETE CASCADE
);
CREATE INDEX IF NOT EXISTS idx_messages_conversation_position ON messages(conversation_id, position);
`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate sqlite schema: %w", err)
	}
	return nil
}

// Count returns the number of stored conversations
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count conversations: %w", err)
	}
	return n, nil
}

// ImportHistory appends conversations after the existing ones in a single
// transaction and returns their new IDs.
func (s *Store) ImportHistory(ctx context.Context, history models.History) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM conversations`).Scan(&next); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	now := s.now()
	ids := make([]string, 0, len(history))
	for i, conv := range history {
		convID := uuid.NewString()
		if _, err := tx.ExecContext(ctx, `
INSERT INTO conversations (id, position, created_at)
VALUES (?, ?, ?)`, convID, next+i, now); err != nil {
			return nil, fmt.Errorf("insert conversation: %w", err)
		}

		for pos, msg := range conv.Messages() {
			categories, err := encodeCategories(msg.Categories)
			if err != nil {
				return nil, err
			}
			if _, err := tx.ExecContext(ctx, `
INSERT INTO messages (id, conversation_id, position, role, content, categories, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`, uuid.NewString(), convID, pos, string(msg.Role), msg.Content, categories, now); err != nil {
				return nil, fmt.Errorf("insert message: %w", err)
			}
		}
		ids = append(ids, convID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return ids, nil
}

// LoadHistory returns every conversation in position order
func (s *Store) LoadHistory(ctx context.Context) (models.History, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT c.id, m.role, m.content, m.categories
FROM conversations c
LEFT JOIN messages m ON m.conversation_id = c.id
ORDER BY c.position ASC, m.position ASC`)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	history := models.History{}
	var (
		current   *models.Conversation
		currentID string
	)
	for rows.Next() {
		var (
			convID     string
			role       sql.NullString
			content    sql.NullString
			categories sql.NullString
		)
		if err := rows.Scan(&convID, &role, &content, &categories); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		if current == nil || convID != currentID {
			current = models.NewConversation()
			currentID = convID
			history = append(history, current)
		}
		if !role.Valid {
			continue // conversation without messages
		}

		r, ok := models.ParseRole(role.String)
		if !ok {
			return nil, fmt.Errorf("conversation %s: invalid role %q", convID, role.String)
		}
		cats, err := decodeCategories(categories)
		if err != nil {
			return nil, fmt.Errorf("conversation %s: %w", convID, err)
		}
		if r == models.RoleUser {
			current.Append(models.NewUserMessage(content.String))
		} else {
			current.Append(models.NewSystemMessage(content.String, cats))
		}
	}
	return history, rows.Err()
}

// Clear deletes all conversations
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM conversations`); err != nil {
		return fmt.Errorf("clear conversations: %w", err)
	}
	return nil
}

func encodeCategories(categories []string) (sql.NullString, error) {
	if len(categories) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(categories)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode categories: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeCategories(value sql.NullString) ([]string, error) {
	if !value.Valid || value.String == "" {
		return nil, nil
	}
	var categories []string
	if err := json.Unmarshal([]byte(value.String), &categories); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	return categories, nil
}
