package history

import (
	"encoding/json"
	"fmt"

	"genstudio/internal/domain"
)

func encodeEntries(entries []domain.HistoryEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return raw, nil
}

// decodeEntries treats an empty document as an empty history.
func decodeEntries(raw []byte) ([]domain.HistoryEntry, error) {
	if len(raw) == 0 {
		return []domain.HistoryEntry{}, nil
	}
	var entries []domain.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return entries, nil
}
