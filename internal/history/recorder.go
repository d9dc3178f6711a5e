package history

import (
	"context"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/index"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
)

// Store is the persistent side of the history.
type Store interface {
	SaveRecord(ctx context.Context, rec *domain.SyncRecord) error
	SaveLastRun(ctx context.Context, status domain.RunStatus) error
}

// Recorder writes sync history to the memory index and, when a store is
// configured, to Redis. Store failures are logged and swallowed.
// It implements syncer.Recorder.
type Recorder struct {
	index  *index.MemoryIndex
	store  Store
	logger logger.Logger
}

// NewRecorder creates a recorder. store may be nil.
func NewRecorder(idx *index.MemoryIndex, store Store, log logger.Logger) *Recorder {
	return &Recorder{
		index:  idx,
		store:  store,
		logger: log,
	}
}

// Record keeps rec as the latest record for its bookmark.
func (r *Recorder) Record(ctx context.Context, rec domain.SyncRecord) {
	r.index.AddRecord(&rec)

	if r.store == nil {
		return
	}
	if err := r.store.SaveRecord(context.WithoutCancel(ctx), &rec); err != nil {
		r.logger.Warn("failed to save sync record to redis",
			logger.String("bookmark_id", rec.BookmarkID),
			logger.Error(err))
	}
}

// RecordRun keeps status as the last run.
func (r *Recorder) RecordRun(ctx context.Context, status domain.RunStatus) {
	r.index.SetLastRun(status)

	if r.store == nil {
		return
	}
	if err := r.store.SaveLastRun(context.WithoutCancel(ctx), status); err != nil {
		r.logger.Warn("failed to save run status to redis",
			logger.String("run_id", status.RunID),
			logger.Error(err))
	}
}
