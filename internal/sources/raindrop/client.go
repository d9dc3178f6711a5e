package raindrop

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/utils"
)

const (
	// DefaultBaseURL is the public REST endpoint.
	DefaultBaseURL = "https://api.raindrop.io/rest/v1"
	// DefaultTag marks bookmarks meant for publishing.
	DefaultTag = "1"
	// DefaultPerPage bounds the latest-bookmark query.
	DefaultPerPage = 10

	serviceName = "raindrop"
	// allCollection searches every collection except trash.
	allCollection = "0"
)

// Options configures a Source.
type Options struct {
	BaseURL string
	Token   string
	Tag     string
	PerPage int
}

// Source reads the latest tagged bookmark from Raindrop. It implements
// syncer.BookmarkSource.
type Source struct {
	opts   Options
	http   *http.Client
	logger logger.Logger
}

// NewSource creates a Raindrop source. A nil httpClient uses
// http.DefaultClient.
func NewSource(opts Options, httpClient *http.Client, log logger.Logger) (*Source, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("raindrop token is required")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	if opts.Tag == "" {
		opts.Tag = DefaultTag
	}
	if opts.PerPage <= 0 {
		opts.PerPage = DefaultPerPage
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Source{opts: opts, http: httpClient, logger: log}, nil
}

// LatestBookmark returns the newest bookmark carrying the configured tag,
// or nil when there is none.
func (s *Source) LatestBookmark(ctx context.Context) (*domain.Bookmark, error) {
	q := url.Values{}
	q.Set("tag", s.opts.Tag)
	q.Set("sort", "-created")
	q.Set("perpage", strconv.Itoa(s.opts.PerPage))
	endpoint := s.opts.BaseURL + "/raindrops/" + allCollection + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.opts.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach raindrop: %w", err)
	}
	defer utils.Close(resp.Body)

	if err := utils.CheckResponse(serviceName, resp); err != nil {
		return nil, err
	}

	var body raindropsResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode raindrop response: %w", err)
	}

	s.logger.Debug("fetched raindrops",
		logger.String("tag", s.opts.Tag),
		logger.Int("count", len(body.Items)))

	// The tag query is a full-text match; only an exact tag counts.
	for _, it := range body.Items {
		if it.hasTag(s.opts.Tag) {
			return it.toDomain(), nil
		}
	}
	return nil, nil
}
