// Package history records what Kodi plays into the database.
package history

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/stwalsh4118/kodiserv/internal/db"
	"github.com/stwalsh4118/kodiserv/internal/logger"
	"github.com/stwalsh4118/kodiserv/internal/metrics"
	"github.com/stwalsh4118/kodiserv/internal/models"
	"github.com/stwalsh4118/kodiserv/internal/nowplaying"
)

// Store persists history entries
type Store interface {
	Create(ctx context.Context, entry *models.HistoryEntry) error
	Latest(ctx context.Context) (*models.HistoryEntry, error)
}

// Recorder writes a history entry whenever the playing item changes
type Recorder struct {
	store Store

	mu     sync.Mutex
	last   string
	seeded bool
}

// NewRecorder creates a recorder backed by store
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Fingerprint identifies a playing item by kind, title and IMDb number
func Fingerprint(np nowplaying.NowPlaying) string {
	key := fmt.Sprintf("%s|%s|%s", np.Kind(), np.Title(), np.IMDBNumber())
	return strconv.FormatUint(xxhash.Sum64String(key), 16)
}

// Record stores np when it is active and differs from the last recorded item.
// Going inactive clears the last item, so replaying the same title is recorded again.
func (r *Recorder) Record(ctx context.Context, np nowplaying.NowPlaying, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.seeded {
		if err := r.seed(ctx); err != nil {
			return false, err
		}
	}

	if !np.Active() {
		r.last = ""
		return false, nil
	}

	fingerprint := Fingerprint(np)
	if fingerprint == r.last {
		return false, nil
	}

	entry := models.NewHistoryEntry(string(np.Kind()), np.Title(), np.IMDBNumber(), fingerprint, at)
	if err := r.store.Create(ctx, entry); err != nil {
		return false, err
	}
	r.last = fingerprint
	metrics.HistoryEntriesTotal.Inc()

	logger.Log.Info().
		Str("kind", entry.Kind).
		Str("title", entry.Title).
		Str("fingerprint", fingerprint).
		Msg("Recorded now playing")

	return true, nil
}

// seed picks up the last recorded item so a restart mid-playback does not duplicate it
func (r *Recorder) seed(ctx context.Context) error {
	latest, err := r.store.Latest(ctx)
	switch {
	case db.IsNotFound(err):
		r.last = ""
	case err != nil:
		return fmt.Errorf("failed to load latest history entry: %w", err)
	default:
		r.last = latest.Fingerprint
	}
	r.seeded = true
	return nil
}
