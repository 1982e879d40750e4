package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/switchboard/internal/game"
)

// Recorder is a game.Observer that writes every snapshot to the store.
// It is safe to share between games running in parallel.
//
// Observe cannot return an error, so write failures are logged and the
// first one is kept for Err.
type Recorder struct {
	store  *Store
	logger *slog.Logger

	mu   sync.Mutex
	next map[string]int
	err  error
}

// NewRecorder creates a recorder writing to s. A nil logger means
// slog.Default().
func NewRecorder(s *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: s, logger: logger, next: make(map[string]int)}
}

// Observe implements game.Observer.
func (r *Recorder) Observe(snap game.Snapshot) {
	r.mu.Lock()
	idx := r.next[snap.GameID]
	r.next[snap.GameID] = idx + 1
	r.mu.Unlock()

	if err := r.store.WriteSnapshot(context.Background(), idx, snap); err != nil {
		r.logger.Error("snapshot not recorded", "game_id", snap.GameID, "index", idx, "error", err)
		r.mu.Lock()
		if r.err == nil {
			r.err = err
		}
		r.mu.Unlock()
	}
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
