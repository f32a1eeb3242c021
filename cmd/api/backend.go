package main

import (
	"context"
	"fmt"

	"genstudio/internal/history"
	"genstudio/internal/infra"
	"genstudio/internal/storage"
)

// openHistoryBackend builds the persistence backend named by HISTORY_BACKEND.
// The returned func releases whatever connection the backend holds.
func openHistoryBackend(ctx context.Context, cfg *infra.Config, files *storage.FileStore, logger infra.Logger) (history.Backend, func(), error) {
	noop := func() {}
	switch cfg.HistoryBackend {
	case infra.HistoryBackendMemory:
		return history.NewMemoryBackend(), noop, nil
	case infra.HistoryBackendFile:
		return history.NewFileBackend(files, cfg.HistoryKey), noop, nil
	case infra.HistoryBackendRedis:
		client, err := history.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return history.NewRedisBackend(client, cfg.HistoryKey), func() { _ = client.Close() }, nil
	case infra.HistoryBackendSQLite:
		b, err := history.OpenSQLite(cfg.SQLitePath, cfg.HistoryKey)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	case infra.HistoryBackendPostgres:
		pool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		b := history.NewPostgresBackend(infra.NewSQLRunner(pool, logger), cfg.HistoryKey)
		if err := b.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return b, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported history backend %q", cfg.HistoryBackend)
	}
}
