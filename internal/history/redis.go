package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"genstudio/internal/domain"
)

// RedisBackend stores the list as one JSON string value.
type RedisBackend struct {
	client redis.Cmdable
	key    string
}

func NewRedisBackend(client redis.Cmdable, key string) *RedisBackend {
	return &RedisBackend{client: client, key: key}
}

// NewRedisClient connects to the server at url and checks it answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("history: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("history: connect redis: %w", err)
	}
	return client, nil
}

func (b *RedisBackend) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return decodeEntries(raw)
}

func (b *RedisBackend) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	if err := b.client.Set(ctx, b.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}
