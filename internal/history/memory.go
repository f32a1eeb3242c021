package history

import (
	"context"
	"sync"

	"genstudio/internal/domain"
)

// MemoryBackend keeps the persisted list in process memory.
type MemoryBackend struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
	saves   int
}

func NewMemoryBackend(seed ...domain.HistoryEntry) *MemoryBackend {
	return &MemoryBackend{entries: append([]domain.HistoryEntry(nil), seed...)}
}

func (m *MemoryBackend) Load(ctx context.Context) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.HistoryEntry{}, m.entries...), nil
}

func (m *MemoryBackend) Save(ctx context.Context, entries []domain.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]domain.HistoryEntry{}, entries...)
	m.saves++
	return nil
}

// Saves reports how many times the list was written.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
