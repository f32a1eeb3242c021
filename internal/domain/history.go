package domain

import "time"

// EntryKind says what an entry's Data holds.
type EntryKind string

const (
	EntryKindImage EntryKind = "image"
	EntryKindVideo EntryKind = "video"
)

// HistoryEntry is a record of one past successful generation. Image entries
// hold a self-contained data URI; video entries hold the remote video URL.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Kind      EntryKind `json:"kind,omitempty"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
