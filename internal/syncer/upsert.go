package syncer

import (
	"context"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/markup"
)

// Decision is the outcome of an upsert.
type Decision struct {
	Action domain.SyncAction
	PostID string
}

// Decider creates or updates the post for a bookmark. The post body is the
// only record of what was synced: a post belongs to a bookmark when its HTML
// contains the bookmark's identifier attribute.
type Decider struct {
	posts  PostStore
	filter string
	logger logger.Logger
}

// NewDecider creates a decider that searches posts tagged baseTag.
func NewDecider(posts PostStore, baseTag string, log logger.Logger) *Decider {
	return &Decider{
		posts:  posts,
		filter: "tag:" + baseTag,
		logger: log,
	}
}

// FindExisting returns the first post whose body carries bookmarkID, or nil.
func (d *Decider) FindExisting(ctx context.Context, bookmarkID string) (*domain.Post, error) {
	posts, err := d.posts.BrowsePosts(ctx, d.filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}

	needle := markup.IDAttribute(bookmarkID)
	for i := range posts {
		if strings.Contains(posts[i].HTML, needle) {
			return &posts[i], nil
		}
	}
	return nil, nil
}

// Upsert edits the existing post for bookmarkID, or creates one with payload.
func (d *Decider) Upsert(ctx context.Context, bookmarkID string, payload domain.PostPayload) (Decision, error) {
	existing, err := d.FindExisting(ctx, bookmarkID)
	if err != nil {
		return Decision{}, err
	}

	if existing == nil {
		d.logger.Info("creating new post",
			logger.String("bookmark_id", bookmarkID))
		id, err := d.posts.CreatePost(ctx, payload)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to create post: %w", err)
		}
		return Decision{Action: domain.ActionCreated, PostID: id}, nil
	}

	fields := []logger.Field{
		logger.String("bookmark_id", bookmarkID),
		logger.String("post_id", existing.ID),
	}
	if prev, ok := markup.ReadMetadata(existing.HTML); ok {
		fields = append(fields,
			logger.String("previous_title", prev.Title),
			logger.String("previous_created", prev.Created))
	}
	d.logger.Info("updating existing post", fields...)

	id, err := d.posts.EditPost(ctx, existing.ID, existing.UpdatedAt, payload)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to update post %s: %w", existing.ID, err)
	}
	return Decision{Action: domain.ActionUpdated, PostID: id}, nil
}
