package local

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
)

// Source reads bookmarks from a YAML file on every call, so edits to the
// file are picked up without a restart. It implements syncer.BookmarkSource.
type Source struct {
	filePath string
	tag      string
	logger   logger.Logger
}

// NewSource creates a file-backed source selecting bookmarks tagged tag.
func NewSource(filePath, tag string, log logger.Logger) *Source {
	return &Source{
		filePath: filePath,
		tag:      tag,
		logger:   log,
	}
}

// Load reads and parses the bookmarks file.
func (s *Source) Load() (BookmarksFile, error) {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read bookmarks file: %w", err)
	}

	var file BookmarksFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}
	return file, nil
}

// LatestBookmark returns the tagged entry with the most recent creation
// time. Ties keep file order; entries whose time does not parse sort oldest.
func (s *Source) LatestBookmark(_ context.Context) (*domain.Bookmark, error) {
	file, err := s.Load()
	if err != nil {
		return nil, err
	}

	var (
		latest   *Entry
		latestAt time.Time
	)
	for i := range file {
		e := &file[i]
		if !hasTag(e.Tags, s.tag) {
			continue
		}
		at := parseCreated(e.Created)
		if latest == nil || at.After(latestAt) {
			latest, latestAt = e, at
		}
	}

	s.logger.Debug("loaded bookmarks file",
		logger.String("path", s.filePath),
		logger.Int("entries", len(file)))

	if latest == nil {
		return nil, nil
	}
	return latest.toDomain(), nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func parseCreated(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
