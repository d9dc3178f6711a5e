package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/linkpost/internal/content"
	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
)

// Outcome is how a sync run ended.
type Outcome string

const (
	OutcomeNoBookmark Outcome = "no_bookmark"
	OutcomeSkipped    Outcome = "skipped"
	OutcomeCreated    Outcome = "created"
	OutcomeUpdated    Outcome = "updated"
	OutcomeFailed     Outcome = "failed"
)

// Result describes a finished sync run.
type Result struct {
	RunID      string
	Outcome    Outcome
	BookmarkID string
	PostID     string
	Title      string
}

// Message is the human readable summary returned to the caller.
func (r Result) Message() string {
	switch r.Outcome {
	case OutcomeNoBookmark:
		return "No bookmarks to process"
	case OutcomeSkipped:
		return "Bookmark skipped - no content to process"
	case OutcomeCreated:
		return fmt.Sprintf("Created new post %s", r.PostID)
	case OutcomeUpdated:
		return fmt.Sprintf("Updated post %s", r.PostID)
	default:
		return string(r.Outcome)
	}
}

// Syncer publishes the latest bookmark. Each Run is independent: fetch, gate,
// search, build, write, strictly in sequence with no retries.
type Syncer struct {
	source   BookmarkSource
	builder  *content.Builder
	decider  *Decider
	recorder Recorder
	logger   logger.Logger
	now      func() time.Time
	newRunID func() string
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithRecorder keeps a history of successful writes.
func WithRecorder(r Recorder) Option {
	return func(s *Syncer) { s.recorder = r }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Syncer) { s.now = now }
}

// WithRunIDs overrides run id generation, for tests.
func WithRunIDs(next func() string) Option {
	return func(s *Syncer) { s.newRunID = next }
}

// New creates a Syncer.
func New(source BookmarkSource, posts PostStore, builder *content.Builder, log logger.Logger, opts ...Option) *Syncer {
	s := &Syncer{
		source:   source,
		builder:  builder,
		decider:  NewDecider(posts, builder.BaseTag(), log),
		logger:   log,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs one sync. Any collaborator failure aborts the run and is
// returned; nothing is written in that case unless the write itself was
// the call that failed.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	res, err := s.run(ctx, Result{RunID: s.newRunID()})
	if err != nil {
		res.Outcome = OutcomeFailed
		s.logger.Error("sync failed",
			logger.String("run_id", res.RunID),
			logger.Error(err))
	}

	if s.recorder != nil {
		status := domain.RunStatus{
			RunID:      res.RunID,
			Outcome:    string(res.Outcome),
			BookmarkID: res.BookmarkID,
			PostID:     res.PostID,
			FinishedAt: s.now(),
		}
		if err != nil {
			status.Error = err.Error()
		}
		s.recorder.RecordRun(ctx, status)
	}
	return res, err
}

func (s *Syncer) run(ctx context.Context, res Result) (Result, error) {
	runField := logger.String("run_id", res.RunID)

	s.logger.Info("starting sync", runField)

	bookmark, err := s.source.LatestBookmark(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to fetch latest bookmark: %w", err)
	}
	if bookmark == nil {
		s.logger.Info("no bookmarks to process", runField)
		res.Outcome = OutcomeNoBookmark
		return res, nil
	}

	res.BookmarkID = bookmark.ID
	res.Title = bookmark.Title
	s.logger.Info("found bookmark",
		runField,
		logger.String("bookmark_id", bookmark.ID),
		logger.String("title", bookmark.Title),
		logger.Strings("tags", bookmark.Tags))

	if !domain.ShouldProcess(bookmark) {
		s.logger.Info("bookmark has no notes, highlights or media, skipping",
			runField,
			logger.String("bookmark_id", bookmark.ID))
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	_, payload := s.builder.Build(bookmark)

	decision, err := s.decider.Upsert(ctx, bookmark.ID, payload)
	if err != nil {
		return res, err
	}

	res.PostID = decision.PostID
	res.Outcome = OutcomeCreated
	if decision.Action == domain.ActionUpdated {
		res.Outcome = OutcomeUpdated
	}

	s.logger.Info("sync finished",
		runField,
		logger.String("outcome", string(res.Outcome)),
		logger.String("post_id", res.PostID))

	if s.recorder != nil {
		s.recorder.Record(ctx, domain.SyncRecord{
			RunID:      res.RunID,
			BookmarkID: bookmark.ID,
			PostID:     decision.PostID,
			Action:     decision.Action,
			Title:      payload.Title,
			Link:       bookmark.Link,
			SyncedAt:   s.now(),
		})
	}

	return res, nil
}
