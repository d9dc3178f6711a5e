package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
)

// MemoryIndex keeps the sync history in memory: the latest record per
// bookmark and the status of the last run. It is the source of truth for
// the read endpoints; Redis only persists it across restarts.
type MemoryIndex struct {
	mu         sync.RWMutex
	records    map[string]*domain.SyncRecord // bookmark ID -> latest record
	lastRun    domain.RunStatus
	hasLastRun bool
	lastWarmUp time.Time // Timestamp of last load from Redis
}

// NewMemoryIndex creates a new memory index
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		records: make(map[string]*domain.SyncRecord),
	}
}

// AddRecord stores rec, replacing any older record for the same bookmark.
// A record older than the one already held is ignored.
func (idx *MemoryIndex) AddRecord(rec *domain.SyncRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.addLocked(rec)
}

// LoadRecords merges records loaded from persistent storage.
func (idx *MemoryIndex) LoadRecords(records []*domain.SyncRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, rec := range records {
		idx.addLocked(rec)
	}
	idx.lastWarmUp = time.Now()
}

func (idx *MemoryIndex) addLocked(rec *domain.SyncRecord) {
	if rec == nil || rec.BookmarkID == "" {
		return
	}
	if cur, ok := idx.records[rec.BookmarkID]; ok && cur.SyncedAt.After(rec.SyncedAt) {
		return
	}
	cp := *rec
	idx.records[rec.BookmarkID] = &cp
}

// GetRecord retrieves the latest record for a bookmark
func (idx *MemoryIndex) GetRecord(bookmarkID string) (*domain.SyncRecord, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	rec, ok := idx.records[bookmarkID]
	if !ok {
		return nil, false
	}
	cp := *rec
	return &cp, true
}

// GetAllRecords returns every record, newest first
func (idx *MemoryIndex) GetAllRecords() []*domain.SyncRecord {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	records := make([]*domain.SyncRecord, 0, len(idx.records))
	for _, rec := range idx.records {
		cp := *rec
		records = append(records, &cp)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].SyncedAt.Equal(records[j].SyncedAt) {
			return records[i].BookmarkID < records[j].BookmarkID
		}
		return records[i].SyncedAt.After(records[j].SyncedAt)
	})
	return records
}

// DeleteRecord removes a bookmark's record from the index
func (idx *MemoryIndex) DeleteRecord(bookmarkID string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	delete(idx.records, bookmarkID)
}

// Count returns the number of records in the index
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.records)
}

// SetLastRun replaces the last run status.
func (idx *MemoryIndex) SetLastRun(status domain.RunStatus) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.hasLastRun && idx.lastRun.FinishedAt.After(status.FinishedAt) {
		return
	}
	idx.lastRun = status
	idx.hasLastRun = true
}

// LastRun returns the status of the most recent run, if any.
func (idx *MemoryIndex) LastRun() (domain.RunStatus, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastRun, idx.hasLastRun
}

// GetLastWarmUp returns when records were last loaded from Redis
func (idx *MemoryIndex) GetLastWarmUp() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastWarmUp
}
