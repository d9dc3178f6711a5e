package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/linkpost/internal/httpserver/mw"
)

func init() { Register("status", registerStatus) }

func registerStatus(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/readyz", handlers.Readyz(d))
		r.Get("/infra", handlers.Infra(d))
		r.Get("/history", handlers.History(d))
	})
}
