package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkpost/internal/index"
	"github.com/MrSnakeDoc/linkpost/internal/logger"
	"github.com/MrSnakeDoc/linkpost/internal/syncer"
)

type stubSyncer struct{ calls int }

func (s *stubSyncer) Run(context.Context) (syncer.Result, error) {
	s.calls++
	return syncer.Result{RunID: "r", Outcome: syncer.OutcomeNoBookmark}, nil
}

func newRouter(s *stubSyncer) http.Handler {
	r := chi.NewRouter()
	RegisterAll(r, deps.Deps{
		Logger:         logger.NewNop(),
		StartTime:      time.Now(),
		SyncSecret:     "s3cret",
		SyncTimeout:    time.Second,
		SyncRateBurst:  10,
		SyncRatePerMin: 10,
		AllowedCIDRS:   []string{"10.0.0.0/8"},
		Syncer:         s,
		History:        index.NewMemoryIndex(),
	})
	return r
}

func TestNames(t *testing.T) {
	got := strings.Join(Names(), ",")
	if !strings.Contains(got, "sync") || !strings.Contains(got, "status") {
		t.Errorf("Names() = %v, want sync and status", got)
	}
}

func TestRoutes(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		auth      string
		remote    string
		wantCode  int
		wantCalls int
	}{
		{name: "sync get", method: http.MethodGet, target: "/sync", auth: "Bearer s3cret", wantCode: 200, wantCalls: 1},
		{name: "sync post", method: http.MethodPost, target: "/sync", auth: "Bearer s3cret", wantCode: 200, wantCalls: 1},
		{name: "sync unauthorized", method: http.MethodPost, target: "/sync", auth: "Bearer x", wantCode: 401},
		{name: "healthz open", method: http.MethodGet, target: "/healthz", remote: "8.8.8.8:1", wantCode: 200},
		{name: "infra allowed", method: http.MethodGet, target: "/infra", remote: "10.0.0.1:1", wantCode: 200},
		{name: "history forbidden", method: http.MethodGet, target: "/history", remote: "8.8.8.8:1", wantCode: 403},
		{name: "sync delete not allowed", method: http.MethodDelete, target: "/sync", auth: "Bearer s3cret", wantCode: 405},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &stubSyncer{}
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			if tt.remote != "" {
				req.RemoteAddr = tt.remote
			}
			rec := httptest.NewRecorder()
			newRouter(s).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("%s %s status = %d, want %d", tt.method, tt.target, rec.Code, tt.wantCode)
			}
			if s.calls != tt.wantCalls {
				t.Errorf("%s %s syncer calls = %d, want %d", tt.method, tt.target, s.calls, tt.wantCalls)
			}
		})
	}
}
