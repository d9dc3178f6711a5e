package syncer

import (
	"context"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
)

// BookmarkSource returns the most recent bookmark eligible for publishing,
// or nil when there is none.
type BookmarkSource interface {
	LatestBookmark(ctx context.Context) (*domain.Bookmark, error)
}

// PostSearcher lists existing posts matching a content-system filter,
// including their raw HTML.
type PostSearcher interface {
	BrowsePosts(ctx context.Context, filter string) ([]domain.Post, error)
}

// PostWriter creates and edits posts. Both return the resulting post id.
type PostWriter interface {
	CreatePost(ctx context.Context, payload domain.PostPayload) (string, error)
	EditPost(ctx context.Context, id, updatedAt string, payload domain.PostPayload) (string, error)
}

// PostStore is the content system as seen by the sync.
type PostStore interface {
	PostSearcher
	PostWriter
}

// Recorder keeps a record of successful writes and of every run's outcome.
// Implementations are best effort and must not fail the sync.
type Recorder interface {
	Record(ctx context.Context, rec domain.SyncRecord)
	RecordRun(ctx context.Context, status domain.RunStatus)
}
