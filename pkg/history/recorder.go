package history

import (
	"context"
	"time"

	"github.com/jingkaihe/genai/pkg/logger"
)

// Recorder records finished runs without ever failing them. A nil Recorder,
// or one without a store, records nothing.
type Recorder struct {
	store *Store
}

// NewRecorder creates a Recorder writing to store
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// Enabled reports whether runs are persisted
func (r *Recorder) Enabled() bool {
	return r != nil && r.store != nil
}

// Store returns the underlying store, or nil when disabled
func (r *Recorder) Store() *Store {
	if r == nil {
		return nil
	}
	return r.store
}

// Record stamps run as finished and stores it. Storage errors are logged.
func (r *Recorder) Record(ctx context.Context, run *Run) {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}
	if !r.Enabled() {
		return
	}

	if err := r.store.Record(ctx, run); err != nil {
		logger.G(ctx).WithError(err).WithField("run_id", run.ID).Warn("failed to record run history")
	}
}
