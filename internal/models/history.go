// Package models defines the entities persisted by the service.
package models

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one item that started playing on Kodi
type HistoryEntry struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Kind        string    `json:"kind" gorm:"type:text;not null;column:kind"`
	Title       string    `json:"title" gorm:"type:text;not null;column:title"`
	IMDBNumber  *string   `json:"imdb_number,omitempty" gorm:"type:text;column:imdb_number"`
	Fingerprint string    `json:"fingerprint" gorm:"type:text;not null;column:fingerprint"`
	StartedAt   time.Time `json:"started_at" gorm:"type:datetime;not null;column:started_at"`
	CreatedAt   time.Time `json:"created_at" gorm:"type:datetime;default:CURRENT_TIMESTAMP;column:created_at"`
}

// TableName overrides the default pluralized table name
func (HistoryEntry) TableName() string {
	return "now_playing_history"
}

// NewHistoryEntry creates a HistoryEntry with a generated UUID.
// An empty imdbNumber is stored as NULL.
func NewHistoryEntry(kind, title, imdbNumber, fingerprint string, startedAt time.Time) *HistoryEntry {
	entry := &HistoryEntry{
		ID:          uuid.New(),
		Kind:        kind,
		Title:       title,
		Fingerprint: fingerprint,
		StartedAt:   startedAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}
	if imdbNumber != "" {
		entry.IMDBNumber = &imdbNumber
	}
	return entry
}
