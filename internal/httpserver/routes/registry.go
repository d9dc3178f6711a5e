package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/linkpost/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	name string
	reg  Registrar
}

var registry []entry

// Register adds a named registrar. Registrars build their own middleware
// chains from deps because most of them depend on configuration.
func Register(name string, reg Registrar) {
	registry = append(registry, entry{name: name, reg: reg})
}

// Names lists the registered route groups in registration order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, e := range registry {
		names = append(names, e.name)
	}
	return names
}

// Called once from httpserver.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, e := range registry {
		e.reg(r, d)
	}
}
