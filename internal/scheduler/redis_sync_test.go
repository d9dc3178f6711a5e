package scheduler

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/index"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	redisstore "github.com/MrSnakeDoc/linkpost/internal/store/redis"
)

type fakeLoader struct {
	records []*domain.SyncRecord
	run     domain.RunStatus
	runErr  error
	err     error
}

func (f *fakeLoader) GetAllRecords(context.Context) ([]*domain.SyncRecord, error) {
	return f.records, f.err
}

func (f *fakeLoader) GetLastRun(context.Context) (domain.RunStatus, error) {
	return f.run, f.runErr
}

func TestRedisSyncer_Sync(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name      string
		loader    *fakeLoader
		wantErr   bool
		wantCount int
		wantRun   bool
	}{
		{
			name: "records and last run",
			loader: &fakeLoader{
				records: []*domain.SyncRecord{{BookmarkID: "1", SyncedAt: now}, {BookmarkID: "2", SyncedAt: now}},
				run:     domain.RunStatus{RunID: "r", FinishedAt: now},
			},
			wantCount: 2,
			wantRun:   true,
		},
		{
			name:   "empty redis",
			loader: &fakeLoader{runErr: fmt.Errorf("last run: %w", redisstore.ErrNotFound)},
		},
		{
			name:    "records error",
			loader:  &fakeLoader{err: errors.New("down")},
			wantErr: true,
		},
		{
			name:    "last run error",
			loader:  &fakeLoader{runErr: errors.New("down")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memIndex := index.NewMemoryIndex()
			err := NewRedisSyncer(tt.loader, memIndex, logger.New("error", false)).Sync(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Sync() error = %v, wantErr %v", err, tt.wantErr)
			}
			if n := memIndex.Count(); n != tt.wantCount {
				t.Errorf("Count() = %d, want %d", n, tt.wantCount)
			}
			if _, ok := memIndex.LastRun(); ok != tt.wantRun {
				t.Errorf("LastRun() ok = %v, want %v", ok, tt.wantRun)
			}
		})
	}
}
