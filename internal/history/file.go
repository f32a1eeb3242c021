package history

import (
	"context"
	"errors"
	"io/fs"

	"genstudio/internal/domain"
	"genstudio/internal/storage"
)

// FileBackend stores the list as a JSON document inside a FileStore.
type FileBackend struct {
	store *storage.FileStore
	key   string
}

// NewFileBackend stores the history at "<key>.json" under store.
func NewFileBackend(store *storage.FileStore, key string) *FileBackend {
	return &FileBackend{store: store, key: key + ".json"}
}

func (b *FileBackend) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	raw, err := b.store.Read(ctx, b.key)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.HistoryEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeEntries(raw)
}

func (b *FileBackend) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	raw, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	_, err = b.store.WriteAtomic(ctx, b.key, raw)
	return err
}
