package ghost

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/linkpost/internal/domain"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/utils"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testKey() string {
	return "key-id:" + hex.EncodeToString(testSecret)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL+"/", testKey(), "", srv.Client(), logger.NewNop())
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestParseAdminKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "valid", key: testKey()},
		{name: "missing separator", key: "abcdef", wantErr: true},
		{name: "empty id", key: ":abcdef", wantErr: true},
		{name: "non hex secret", key: "id:zz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseAdminKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseAdminKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("parseAdminKey(%q) error = %v, want ErrInvalidKey", tt.key, err)
			}
		})
	}
}

func TestAdminToken(t *testing.T) {
	key, err := parseAdminKey(testKey())
	if err != nil {
		t.Fatalf("parseAdminKey() error = %v", err)
	}
	now := time.Now()

	signed, err := key.token(now)
	if err != nil {
		t.Fatalf("token() error = %v", err)
	}

	tok, err := jwt.Parse(signed,
		func(*jwt.Token) (any, error) { return testSecret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience(tokenAudience),
	)
	if err != nil {
		t.Fatalf("jwt.Parse() error = %v", err)
	}
	if kid := tok.Header["kid"]; kid != "key-id" {
		t.Errorf("kid = %v, want key-id", kid)
	}

	exp, err := tok.Claims.GetExpirationTime()
	if err != nil {
		t.Fatalf("GetExpirationTime() error = %v", err)
	}
	if got := exp.Sub(now).Round(time.Minute); got != tokenLifetime {
		t.Errorf("token lifetime = %v, want %v", got, tokenLifetime)
	}
}

func TestBrowsePosts(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != postsPath {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("filter") != "tag:links" || q.Get("formats") != "html" || q.Get("limit") != "all" {
			t.Errorf("query = %v", q)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Ghost ") {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		if got := r.Header.Get("Accept-Version"); got != DefaultVersion {
			t.Errorf("Accept-Version = %q, want %q", got, DefaultVersion)
		}
		_, _ = io.WriteString(w, `{"posts":[{"id":"p1","updated_at":"2024-01-01T00:00:00.000Z","title":"A","html":"<div raindrop-id=\"1\"></div>"},{"id":"p2"}]}`)
	})

	posts, err := c.BrowsePosts(context.Background(), "tag:links")
	if err != nil {
		t.Fatalf("BrowsePosts() error = %v", err)
	}
	want := []domain.Post{
		{ID: "p1", UpdatedAt: "2024-01-01T00:00:00.000Z", Title: "A", HTML: `<div raindrop-id="1"></div>`},
		{ID: "p2"},
	}
	if len(posts) != len(want) {
		t.Fatalf("BrowsePosts() = %d posts, want %d", len(posts), len(want))
	}
	for i := range want {
		if posts[i] != want[i] {
			t.Errorf("BrowsePosts()[%d] = %+v, want %+v", i, posts[i], want[i])
		}
	}
}

func TestCreatePost(t *testing.T) {
	var got map[string][]map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Query().Get("source") != "html" {
			t.Errorf("request = %s %s", r.Method, r.URL)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"posts":[{"id":"new-id"}]}`)
	})

	id, err := c.CreatePost(context.Background(), domain.PostPayload{
		Title:        "T",
		HTML:         "<p>x</p>",
		Tags:         []string{"links", "go"},
		Status:       domain.StatusPublished,
		CanonicalURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if id != "new-id" {
		t.Errorf("CreatePost() = %q, want new-id", id)
	}

	post := got["posts"][0]
	if post["title"] != "T" || post["canonical_url"] != "https://example.com" {
		t.Errorf("post body = %v", post)
	}
	if _, ok := post["id"]; ok {
		t.Error("create should not send an id")
	}
	tags, _ := post["tags"].([]any)
	if len(tags) != 2 || tags[0].(map[string]any)["name"] != "links" {
		t.Errorf("tags = %v", post["tags"])
	}
}

func TestEditPost(t *testing.T) {
	var got postsEnvelope
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != postsPath+"p1/" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		_, _ = io.WriteString(w, `{"posts":[{"id":"p1"}]}`)
	})

	id, err := c.EditPost(context.Background(), "p1", "stamp", domain.PostPayload{Title: "T"})
	if err != nil {
		t.Fatalf("EditPost() error = %v", err)
	}
	if id != "p1" {
		t.Errorf("EditPost() = %q, want p1", id)
	}
	if got.Posts[0].ID != "p1" || got.Posts[0].UpdatedAt != "stamp" {
		t.Errorf("edit body = %+v", got.Posts[0])
	}
}

func TestClientErrors(t *testing.T) {
	t.Run("status error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "conflict", http.StatusConflict)
		})
		_, err := c.EditPost(context.Background(), "p1", "old", domain.PostPayload{})

		var se *utils.StatusError
		if !errors.As(err, &se) || se.StatusCode != http.StatusConflict {
			t.Errorf("EditPost() error = %v, want status 409", err)
		}
	})

	t.Run("empty response", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"posts":[]}`)
		})
		if _, err := c.CreatePost(context.Background(), domain.PostPayload{}); err == nil {
			t.Error("CreatePost() expected error for empty response")
		}
	})
}
