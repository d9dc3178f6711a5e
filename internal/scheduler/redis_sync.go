package scheduler

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/index"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	redisstore "github.com/MrSnakeDoc/linkpost/internal/store/redis"
)

// HistoryLoader reads persisted sync history.
type HistoryLoader interface {
	GetAllRecords(ctx context.Context) ([]*domain.SyncRecord, error)
	GetLastRun(ctx context.Context) (domain.RunStatus, error)
}

// RedisSyncer loads the sync history from Redis into the memory index on startup
type RedisSyncer struct {
	store  HistoryLoader
	index  *index.MemoryIndex
	logger logger.Logger
}

// NewRedisSyncer creates a new Redis syncer
func NewRedisSyncer(
	store HistoryLoader,
	idx *index.MemoryIndex,
	log logger.Logger,
) *RedisSyncer {
	return &RedisSyncer{
		store:  store,
		index:  idx,
		logger: log,
	}
}

// Sync loads records and the last run status from Redis into memory
func (rs *RedisSyncer) Sync(ctx context.Context) error {
	rs.logger.Info("loading sync history from redis")

	records, err := rs.store.GetAllRecords(ctx)
	if err != nil {
		return err
	}
	rs.index.LoadRecords(records)

	status, err := rs.store.GetLastRun(ctx)
	switch {
	case err == nil:
		rs.index.SetLastRun(status)
	case errors.Is(err, redisstore.ErrNotFound):
	default:
		return err
	}

	if len(records) == 0 {
		rs.logger.Info("no sync history found in redis")
		return nil
	}

	rs.logger.Info("loaded sync history from redis",
		logger.Int("count", len(records)))

	return nil
}
