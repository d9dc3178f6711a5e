package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/index"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
)

const (
	// DefaultRetention is how long sync records are kept
	DefaultRetention = 90 * 24 * time.Hour // 90 days
)

// RecordDeleter removes persisted sync records.
type RecordDeleter interface {
	DeleteRecord(ctx context.Context, bookmarkID string) error
}

// GarbageCollector removes sync records older than the retention
type GarbageCollector struct {
	store     RecordDeleter
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector. store may be nil.
func NewGarbageCollector(
	store RecordDeleter,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *GarbageCollector {
	if retention == 0 {
		retention = DefaultRetention
	}

	return &GarbageCollector{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) {
	// Run immediately on start
	gc.Collect(ctx)

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				gc.Collect(ctx)
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect removes records synced longer ago than the retention and returns
// how many were removed.
func (gc *GarbageCollector) Collect(ctx context.Context) int {
	gc.logger.Debug("running garbage collection for sync history")

	cutoff := gc.now().Add(-gc.retention)
	deleted := 0

	for _, rec := range gc.index.GetAllRecords() {
		if rec.SyncedAt.IsZero() || !rec.SyncedAt.Before(cutoff) {
			continue
		}

		// Delete from memory index
		gc.index.DeleteRecord(rec.BookmarkID)

		// Delete from Redis store (best effort)
		if gc.store != nil {
			if err := gc.store.DeleteRecord(ctx, rec.BookmarkID); err != nil {
				gc.logger.Warn("failed to delete sync record from redis",
					logger.String("bookmark_id", rec.BookmarkID),
					logger.Error(err))
			}
		}

		gc.logger.Info("garbage collected sync record",
			logger.String("bookmark_id", rec.BookmarkID),
			logger.String("post_id", rec.PostID),
			logger.String("age", gc.now().Sub(rec.SyncedAt).String()))

		deleted++
	}

	if deleted > 0 {
		gc.logger.Info("garbage collection completed",
			logger.Int("records_deleted", deleted))
	} else {
		gc.logger.Debug("no sync records to garbage collect")
	}
	return deleted
}
