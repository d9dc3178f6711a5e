package ghost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/utils"
)

const (
	// DefaultVersion is sent as Accept-Version.
	DefaultVersion = "v5.0"

	serviceName = "ghost"
	postsPath   = "/ghost/api/admin/posts/"
)

// Client talks to the Ghost Admin API. It implements syncer.PostStore.
type Client struct {
	baseURL string
	key     adminKey
	version string
	http    *http.Client
	logger  logger.Logger
	now     func() time.Time
}

// NewClient validates the admin key and returns a client for the site at
// baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL, adminKey, version string, httpClient *http.Client, log logger.Logger) (*Client, error) {
	key, err := parseAdminKey(adminKey)
	if err != nil {
		return nil, err
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid ghost url %q: %w", baseURL, err)
	}
	if version == "" {
		version = DefaultVersion
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		version: version,
		http:    httpClient,
		logger:  log,
		now:     time.Now,
	}, nil
}

type tagJSON struct {
	Name string `json:"name"`
}

type postJSON struct {
	ID              string    `json:"id,omitempty"`
	UpdatedAt       string    `json:"updated_at,omitempty"`
	Title           string    `json:"title,omitempty"`
	HTML            string    `json:"html,omitempty"`
	Tags            []tagJSON `json:"tags,omitempty"`
	Status          string    `json:"status,omitempty"`
	Visibility      string    `json:"visibility,omitempty"`
	CanonicalURL    string    `json:"canonical_url,omitempty"`
	CustomExcerpt   string    `json:"custom_excerpt"`
	MetaTitle       string    `json:"meta_title,omitempty"`
	MetaDescription string    `json:"meta_description"`
}

type postsEnvelope struct {
	Posts []postJSON `json:"posts"`
}

func fromPayload(p domain.PostPayload) postJSON {
	tags := make([]tagJSON, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, tagJSON{Name: t})
	}
	return postJSON{
		Title:           p.Title,
		HTML:            p.HTML,
		Tags:            tags,
		Status:          p.Status,
		Visibility:      p.Visibility,
		CanonicalURL:    p.CanonicalURL,
		CustomExcerpt:   p.Excerpt,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
	}
}

// BrowsePosts returns every post matching filter, with HTML bodies.
func (c *Client) BrowsePosts(ctx context.Context, filter string) ([]domain.Post, error) {
	q := url.Values{}
	q.Set("filter", filter)
	q.Set("formats", "html")
	q.Set("limit", "all")

	var env postsEnvelope
	if err := c.do(ctx, http.MethodGet, postsPath+"?"+q.Encode(), nil, &env); err != nil {
		return nil, fmt.Errorf("failed to browse posts: %w", err)
	}

	posts := make([]domain.Post, 0, len(env.Posts))
	for _, p := range env.Posts {
		posts = append(posts, domain.Post{
			ID:        p.ID,
			UpdatedAt: p.UpdatedAt,
			Title:     p.Title,
			HTML:      p.HTML,
		})
	}
	c.logger.Debug("browsed ghost posts",
		logger.String("filter", filter),
		logger.Int("count", len(posts)))
	return posts, nil
}

// CreatePost adds a post from HTML and returns its id.
func (c *Client) CreatePost(ctx context.Context, payload domain.PostPayload) (string, error) {
	body := postsEnvelope{Posts: []postJSON{fromPayload(payload)}}

	id, err := c.write(ctx, http.MethodPost, postsPath+"?source=html", body)
	if err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}
	return id, nil
}

// EditPost replaces post id. updatedAt must be the stamp last read from the
// server or Ghost rejects the edit as a conflict.
func (c *Client) EditPost(ctx context.Context, id, updatedAt string, payload domain.PostPayload) (string, error) {
	post := fromPayload(payload)
	post.ID = id
	post.UpdatedAt = updatedAt
	body := postsEnvelope{Posts: []postJSON{post}}

	got, err := c.write(ctx, http.MethodPut, postsPath+url.PathEscape(id)+"/?source=html", body)
	if err != nil {
		return "", fmt.Errorf("failed to edit post %s: %w", id, err)
	}
	return got, nil
}

func (c *Client) write(ctx context.Context, method, path string, body postsEnvelope) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal post: %w", err)
	}

	var env postsEnvelope
	if err := c.do(ctx, method, path, bytes.NewReader(data), &env); err != nil {
		return "", err
	}
	if len(env.Posts) == 0 || env.Posts[0].ID == "" {
		return "", errors.New("ghost response carried no post")
	}
	return env.Posts[0].ID, nil
}

// Ping checks the Admin API is reachable with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/ghost/api/admin/site/", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	token, err := c.key.token(c.now())
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Ghost "+token)
	req.Header.Set("Accept-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach ghost: %w", err)
	}
	defer utils.Close(resp.Body)

	if err := utils.CheckResponse(serviceName, resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode ghost response: %w", err)
	}
	return nil
}
