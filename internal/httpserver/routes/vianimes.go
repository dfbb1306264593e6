package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/mw"
)

func init() { Register(registerViAnimes) }

func registerViAnimes(r chi.Router, d deps.Deps) {
	r.With(mw.RequireSession(d.Sessions)).Post("/api/vianimes", handlers.CreateViAnime(d))
}
