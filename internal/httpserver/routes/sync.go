package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver/mw"
)

func init() { Register("sync", registerSync) }

func registerSync(r chi.Router, d deps.Deps) {
	chain := []Middleware{
		mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.SyncRateBurst,
			RefillPerIPPerMin: d.SyncRatePerMin,
			MaxEntries:        1024,
			TrustProxy:        d.TrustProxy,
			Now:               d.Now,
		}, d.Logger),
		mw.BearerAuth(d.SyncSecret, d.TrustProxy, d.Logger),
	}

	h := handlers.Sync(d)
	r.With(chain...).Get("/sync", h)
	r.With(chain...).Post("/sync", h)
}
