package history

import (
	"context"
	"fmt"

	"genstudio/internal/domain"
	"genstudio/internal/infra"
	"genstudio/internal/sqlinline"
)

// PostgresBackend stores the list as a jsonb document in one row.
type PostgresBackend struct {
	sql infra.SQLExecutor
	key string
}

func NewPostgresBackend(exec infra.SQLExecutor, key string) *PostgresBackend {
	return &PostgresBackend{sql: exec, key: key}
}

// EnsureSchema creates the history table when it is missing.
func (b *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := b.sql.Exec(ctx, sqlinline.QEnsureHistoryTable); err != nil {
		return fmt.Errorf("postgres ensure schema: %w", err)
	}
	return nil
}

func (b *PostgresBackend) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	var raw []byte
	err := b.sql.QueryRow(ctx, sqlinline.QSelectHistory, b.key).Scan(&raw)
	if infra.IsNoRows(err) {
		return []domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("postgres select: %w", err)
	}
	return decodeEntries(raw)
}

func (b *PostgresBackend) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if _, err := b.sql.Exec(ctx, sqlinline.QUpsertHistory, b.key, string(raw)); err != nil {
		return fmt.Errorf("postgres upsert: %w", err)
	}
	return nil
}
