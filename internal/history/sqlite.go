package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"genstudio/internal/domain"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS history (
	key        TEXT PRIMARY KEY,
	entries    TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteBackend stores the list in a single row of a key/value table.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens (or creates) the database at path. ":memory:" opens a
// private in-memory database.
func OpenSQLite(path, key string) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("history: create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA journal_mode=WAL"} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("history: %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: create sqlite schema: %w", err)
	}
	return &SQLiteBackend{db: db, key: key}, nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	var raw string
	err := b.db.QueryRowContext(ctx, `SELECT entries FROM history WHERE key = ?`, b.key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite select: %w", err)
	}
	return decodeEntries([]byte(raw))
}

func (b *SQLiteBackend) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	_, err = b.db.ExecContext(ctx, `INSERT INTO history (key, entries, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET entries = excluded.entries, updated_at = excluded.updated_at`, b.key, string(raw))
	if err != nil {
		return fmt.Errorf("sqlite upsert: %w", err)
	}
	return nil
}
