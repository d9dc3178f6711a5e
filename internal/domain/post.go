package domain

import "time"

const (
	StatusPublished  = "published"
	VisibilityPublic = "public"
	UntitledTitle    = "Untitled"
)

// PostPayload is what gets written to the content system for one bookmark.
// It is built once per sync and not modified afterwards.
type PostPayload struct {
	Title           string
	HTML            string
	Tags            []string // base tag, media tag, bookmark tags; no duplicates
	Status          string
	Visibility      string
	CanonicalURL    string
	Excerpt         string
	MetaTitle       string
	MetaDescription string
}

// Post is an existing post as returned by the content system's search.
type Post struct {
	ID        string
	UpdatedAt string // last-modified stamp, echoed back on edit
	Title     string
	HTML      string
}

// SyncAction is what a sync did to the content system.
type SyncAction string

const (
	ActionCreated SyncAction = "created"
	ActionUpdated SyncAction = "updated"
)

// SyncRecord is kept after each successful write for observability.
// It is never used to decide between create and update.
type SyncRecord struct {
	RunID      string     `json:"run_id"`
	BookmarkID string     `json:"bookmark_id"`
	PostID     string     `json:"post_id"`
	Action     SyncAction `json:"action"`
	Title      string     `json:"title"`
	Link       string     `json:"link"`
	SyncedAt   time.Time  `json:"synced_at"`
}

// RunStatus summarizes one sync invocation, whatever its outcome.
type RunStatus struct {
	RunID      string    `json:"run_id"`
	Outcome    string    `json:"outcome"`
	BookmarkID string    `json:"bookmark_id,omitempty"`
	PostID     string    `json:"post_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
