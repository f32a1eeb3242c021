// Package history keeps the most-recent-first list of past generations and
// persists it as a single document under one key.
package history

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"genstudio/internal/domain"
	"genstudio/internal/infra"
)

// DefaultMaxEntries caps the history when Options leaves MaxEntries zero.
const DefaultMaxEntries = 100

// Backend persists the whole history list under one key. Load on an empty
// backend returns an empty list, not an error.
type Backend interface {
	Load(ctx context.Context) ([]domain.HistoryEntry, error)
	Save(ctx context.Context, entries []domain.HistoryEntry) error
}

// Options configures a Store. A negative MaxEntries keeps every entry.
type Options struct {
	MaxEntries int
	Logger     *infra.Logger
	Metrics    *infra.Metrics
	Now        func() time.Time
}

// Store is the in-memory view of the history. Each mutation writes the full
// list back to the backend before it becomes visible to readers.
type Store struct {
	mu         sync.RWMutex
	entries    []domain.HistoryEntry
	backend    Backend
	maxEntries int
	logger     *infra.Logger
	metrics    *infra.Metrics
	now        func() time.Time
}

func NewStore(backend Backend, opts Options) *Store {
	maxEntries := opts.MaxEntries
	if maxEntries == 0 {
		maxEntries = DefaultMaxEntries
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		backend:    backend,
		maxEntries: maxEntries,
		logger:     infra.LoggerOrDiscard(opts.Logger),
		metrics:    opts.Metrics,
		now:        now,
	}
}

// Load replaces the in-memory list with the persisted one.
func (s *Store) Load(ctx context.Context) error {
	entries, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("history: load: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.capped(entries)
	s.metrics.SetHistorySize(len(s.entries))
	s.logger.Debug().Int("entries", len(s.entries)).Msg("history: loaded")
	return nil
}

// List returns a copy of all entries, most recent first.
func (s *Store) List() []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.HistoryEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len reports the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Get returns the entry with id or domain.ErrNotFound.
func (s *Store) Get(id string) (domain.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return domain.HistoryEntry{}, fmt.Errorf("history: entry %s: %w", id, domain.ErrNotFound)
}

// Prepend inserts entry at the head of the list. Missing ids and timestamps
// are filled in. When the list exceeds MaxEntries the oldest entries are
// dropped.
func (s *Store) Prepend(ctx context.Context, entry domain.HistoryEntry) (domain.HistoryEntry, error) {
	if strings.TrimSpace(entry.URL) == "" {
		return domain.HistoryEntry{}, fmt.Errorf("%w: history entry has no content", domain.ErrInvalidRequest)
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now().UTC()
	}
	if entry.Kind == "" {
		entry.Kind = domain.EntryKindImage
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.HistoryEntry, 0, len(s.entries)+1)
	next = append(next, entry)
	next = append(next, s.entries...)
	next = s.capped(next)
	if err := s.commit(ctx, next); err != nil {
		return domain.HistoryEntry{}, err
	}
	return entry, nil
}

// Delete removes exactly the entry with id, keeping the order of the rest.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, e := range s.entries {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("history: entry %s: %w", id, domain.ErrNotFound)
	}
	next := make([]domain.HistoryEntry, 0, len(s.entries)-1)
	next = append(next, s.entries[:idx]...)
	next = append(next, s.entries[idx+1:]...)
	return s.commit(ctx, next)
}

// Clear removes every entry.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []domain.HistoryEntry{})
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []domain.HistoryEntry) error {
	if err := s.backend.Save(ctx, next); err != nil {
		s.logger.Error().Err(err).Msg("history: persist failed")
		return fmt.Errorf("history: save: %w", err)
	}
	s.entries = next
	s.metrics.SetHistorySize(len(next))
	return nil
}

func (s *Store) capped(entries []domain.HistoryEntry) []domain.HistoryEntry {
	if s.maxEntries > 0 && len(entries) > s.maxEntries {
		return entries[:s.maxEntries]
	}
	return entries
}
