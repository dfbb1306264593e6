package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
)

type (
	Registrar  func(r chi.Router, d deps.Deps)
	Middleware = func(http.Handler) http.Handler
)

type entry struct {
	reg       Registrar
	mws       []Middleware
	streaming bool
}

var registry []entry

// Register a registrar with optional per-route middlewares.
// Its routes run under the request timeout.
func Register(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws})
}

// RegisterStreaming registers long-lived routes that must not be cut by the
// request timeout.
func RegisterStreaming(reg Registrar, mws ...Middleware) {
	registry = append(registry, entry{reg: reg, mws: mws, streaming: true})
}

// Called once from server.New()
func RegisterAll(r chi.Router, d deps.Deps) {
	r.Group(func(g chi.Router) {
		if d.RequestTimeout > 0 {
			g.Use(middleware.Timeout(d.RequestTimeout))
		}
		for _, e := range registry {
			if !e.streaming {
				e.reg(g.With(e.mws...), d)
			}
		}
	})

	for _, e := range registry {
		if e.streaming {
			e.reg(r.With(e.mws...), d)
		}
	}
}
