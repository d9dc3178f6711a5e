package syncer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/content"
	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/markup"
)

type fakeSource struct {
	bookmark *domain.Bookmark
	err      error
	calls    int
}

func (f *fakeSource) LatestBookmark(context.Context) (*domain.Bookmark, error) {
	f.calls++
	return f.bookmark, f.err
}

type fakeRecorder struct {
	records []domain.SyncRecord
	runs    []domain.RunStatus
}

func (f *fakeRecorder) Record(_ context.Context, rec domain.SyncRecord) {
	f.records = append(f.records, rec)
}

func (f *fakeRecorder) RecordRun(_ context.Context, status domain.RunStatus) {
	f.runs = append(f.runs, status)
}

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestSyncer(source BookmarkSource, posts PostStore, rec Recorder) *Syncer {
	builder := content.NewBuilder(markup.NewConverter(), time.UTC, "links")
	return New(source, posts, builder, logger.NewNop(),
		WithRecorder(rec),
		WithClock(func() time.Time { return fixedNow }),
		WithRunIDs(func() string { return "run-1" }),
	)
}

func TestRunNoBookmark(t *testing.T) {
	posts := &fakePosts{}
	rec := &fakeRecorder{}
	s := newTestSyncer(&fakeSource{}, posts, rec)

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Outcome != OutcomeNoBookmark {
		t.Errorf("Run() outcome = %q, want %q", res.Outcome, OutcomeNoBookmark)
	}
	if res.Message() != "No bookmarks to process" {
		t.Errorf("Message() = %q", res.Message())
	}
	if len(posts.filters) != 0 || posts.writes() != 0 {
		t.Error("Run() should not touch the content system without a bookmark")
	}
	if len(rec.records) != 0 {
		t.Errorf("Run() recorded %d entries, want 0", len(rec.records))
	}
}

func TestRunSkipsIneligible(t *testing.T) {
	posts := &fakePosts{}
	rec := &fakeRecorder{}
	source := &fakeSource{bookmark: &domain.Bookmark{
		ID:   "42",
		Link: "https://example.com",
		Note: "   ",
		Tags: []string{"1"},
	}}
	s := newTestSyncer(source, posts, rec)

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Outcome != OutcomeSkipped {
		t.Errorf("Run() outcome = %q, want %q", res.Outcome, OutcomeSkipped)
	}
	if res.Message() != "Bookmark skipped - no content to process" {
		t.Errorf("Message() = %q", res.Message())
	}
	if len(posts.filters) != 0 || posts.writes() != 0 {
		t.Error("Run() should neither search nor write for an ineligible bookmark")
	}
	if len(rec.records) != 0 {
		t.Errorf("Run() recorded %d entries, want 0", len(rec.records))
	}
}

func TestRunCreates(t *testing.T) {
	posts := &fakePosts{createdID: "p-new"}
	rec := &fakeRecorder{}
	source := &fakeSource{bookmark: &domain.Bookmark{
		ID:      "42",
		Title:   "Go things",
		Link:    "https://example.com/go",
		Created: "2024-05-01T10:00:00Z",
		Tags:    []string{"1", "go"},
		Note:    "worth a read",
	}}
	s := newTestSyncer(source, posts, rec)

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Outcome != OutcomeCreated || res.PostID != "p-new" {
		t.Errorf("Run() = %+v, want created p-new", res)
	}
	if res.Message() != "Created new post p-new" {
		t.Errorf("Message() = %q", res.Message())
	}
	if len(posts.creates) != 1 {
		t.Fatalf("Run() created %d posts, want 1", len(posts.creates))
	}

	payload := posts.creates[0]
	if !strings.Contains(payload.HTML, markup.IDAttribute("42")) {
		t.Error("created post should carry the bookmark identifier")
	}
	if payload.Tags[0] != "links" {
		t.Errorf("created post tags = %v, want base tag first", payload.Tags)
	}

	if len(rec.records) != 1 {
		t.Fatalf("Run() recorded %d entries, want 1", len(rec.records))
	}
	want := domain.SyncRecord{
		RunID:      "run-1",
		BookmarkID: "42",
		PostID:     "p-new",
		Action:     domain.ActionCreated,
		Title:      "Go things",
		Link:       "https://example.com/go",
		SyncedAt:   fixedNow,
	}
	if rec.records[0] != want {
		t.Errorf("Record() = %+v, want %+v", rec.records[0], want)
	}

	wantRun := domain.RunStatus{
		RunID:      "run-1",
		Outcome:    string(OutcomeCreated),
		BookmarkID: "42",
		PostID:     "p-new",
		FinishedAt: fixedNow,
	}
	if len(rec.runs) != 1 || rec.runs[0] != wantRun {
		t.Errorf("RecordRun() = %+v, want %+v", rec.runs, wantRun)
	}
}

func TestRunUpdates(t *testing.T) {
	posts := &fakePosts{posts: []domain.Post{postFor("42", "p1", "stamp")}}
	source := &fakeSource{bookmark: &domain.Bookmark{
		ID:         "42",
		Link:       "https://example.com",
		Highlights: []domain.Highlight{{Text: "quote"}},
	}}
	s := newTestSyncer(source, posts, &fakeRecorder{})

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Outcome != OutcomeUpdated || res.PostID != "p1" {
		t.Errorf("Run() = %+v, want updated p1", res)
	}
	if res.Message() != "Updated post p1" {
		t.Errorf("Message() = %q", res.Message())
	}
	if len(posts.edits) != 1 || posts.edits[0].payload.Title != domain.UntitledTitle {
		t.Errorf("Run() edits = %+v", posts.edits)
	}
}

func TestRunSourceError(t *testing.T) {
	boom := errors.New("unavailable")
	posts := &fakePosts{}
	s := newTestSyncer(&fakeSource{err: boom}, posts, &fakeRecorder{})

	_, err := s.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Run() error = %v, want %v", err, boom)
	}
	if posts.writes() != 0 {
		t.Error("Run() wrote after a source failure")
	}
}

func TestRunWriteErrorNotRecorded(t *testing.T) {
	rec := &fakeRecorder{}
	posts := &fakePosts{writeErr: errors.New("rejected")}
	source := &fakeSource{bookmark: &domain.Bookmark{ID: "1", Note: "n"}}
	s := newTestSyncer(source, posts, rec)

	if _, err := s.Run(context.Background()); err == nil {
		t.Fatal("Run() expected error")
	}
	if len(rec.records) != 0 {
		t.Errorf("Run() recorded %d entries after a failed write", len(rec.records))
	}
	if len(rec.runs) != 1 || rec.runs[0].Outcome != string(OutcomeFailed) || rec.runs[0].Error == "" {
		t.Errorf("RecordRun() = %+v, want one failed run with an error", rec.runs)
	}
}

func TestRunWithoutRecorder(t *testing.T) {
	builder := content.NewBuilder(nil, nil, "")
	s := New(&fakeSource{bookmark: &domain.Bookmark{ID: "1", Note: "n"}}, &fakePosts{createdID: "p"}, builder, logger.NewNop())

	res, err := s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.RunID == "" {
		t.Error("Run() should assign a run id")
	}
}
