package db

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/kodiserv/internal/models"
)

// HistoryRepository handles database operations for now playing history
type HistoryRepository struct {
	db *DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new history entry
func (r *HistoryRepository) Create(ctx context.Context, entry *models.HistoryEntry) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("failed to create history entry: %w", MapGormError(result.Error))
	}
	return nil
}

// ListRecent returns up to limit entries, newest first
func (r *HistoryRepository) ListRecent(ctx context.Context, limit int) ([]*models.HistoryEntry, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	var entries []*models.HistoryEntry
	result := r.db.WithContext(ctx).
		Order("started_at DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list history: %w", MapGormError(result.Error))
	}
	return entries, nil
}

// Latest returns the most recent entry, or ErrNotFound when history is empty
func (r *HistoryRepository) Latest(ctx context.Context) (*models.HistoryEntry, error) {
	var entry models.HistoryEntry
	result := r.db.WithContext(ctx).
		Order("started_at DESC").
		Order("created_at DESC").
		First(&entry)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &entry, nil
}

// Count returns the number of recorded entries
func (r *HistoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.HistoryEntry{}).Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to count history: %w", MapGormError(result.Error))
	}
	return count, nil
}
