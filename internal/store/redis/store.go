package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultRecordTTL is the default TTL for sync records (90 days)
	DefaultRecordTTL = 90 * 24 * time.Hour
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("not found")

// Store persists the sync history in Redis
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store. Records expire after ttl; zero means
// DefaultRecordTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultRecordTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SaveRecord stores a bookmark's latest sync record
func (s *Store) SaveRecord(ctx context.Context, rec *domain.SyncRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal sync record: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, RecordKey(rec.BookmarkID), data, s.ttl)
	pipe.SAdd(ctx, AllRecordsKey(), rec.BookmarkID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save sync record: %w", err)
	}
	return nil
}

// GetRecord retrieves the sync record for a bookmark
func (s *Store) GetRecord(ctx context.Context, bookmarkID string) (*domain.SyncRecord, error) {
	data, err := s.client.Get(ctx, RecordKey(bookmarkID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("sync record %s: %w", bookmarkID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sync record: %w", err)
	}

	var rec domain.SyncRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sync record: %w", err)
	}
	return &rec, nil
}

// GetAllRecords retrieves every sync record. Ids left in the set after their
// record expired are pruned from the set.
func (s *Store) GetAllRecords(ctx context.Context) ([]*domain.SyncRecord, error) {
	ids, err := s.client.SMembers(ctx, AllRecordsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get synced bookmark IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.SyncRecord{}, nil
	}

	records := make([]*domain.SyncRecord, 0, len(ids))
	var expired []interface{}
	for _, id := range ids {
		rec, err := s.GetRecord(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				expired = append(expired, id)
			}
			// Skip records that couldn't be retrieved
			continue
		}
		records = append(records, rec)
	}

	if len(expired) > 0 {
		if err := s.client.SRem(ctx, AllRecordsKey(), expired...).Err(); err != nil {
			return records, fmt.Errorf("failed to prune expired ids: %w", err)
		}
	}
	return records, nil
}

// DeleteRecord removes a bookmark's sync record
func (s *Store) DeleteRecord(ctx context.Context, bookmarkID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, RecordKey(bookmarkID))
	pipe.SRem(ctx, AllRecordsKey(), bookmarkID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete sync record: %w", err)
	}
	return nil
}

// SaveLastRun stores the status of the most recent run
func (s *Store) SaveLastRun(ctx context.Context, status domain.RunStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal run status: %w", err)
	}
	if err := s.client.Set(ctx, LastRunKey(), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save run status: %w", err)
	}
	return nil
}

// GetLastRun retrieves the status of the most recent run
func (s *Store) GetLastRun(ctx context.Context) (domain.RunStatus, error) {
	var status domain.RunStatus
	data, err := s.client.Get(ctx, LastRunKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return status, fmt.Errorf("last run: %w", ErrNotFound)
		}
		return status, fmt.Errorf("failed to get run status: %w", err)
	}
	if err := json.Unmarshal(data, &status); err != nil {
		return status, fmt.Errorf("failed to unmarshal run status: %w", err)
	}
	return status, nil
}
