package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/handlers"
)

func init() {
	Register(registerSession)
	RegisterStreaming(registerSessionEvents)
}

func registerSession(r chi.Router, d deps.Deps) {
	r.Get("/api/session", handlers.Session(d))
	r.Post("/api/nav", handlers.Navigate(d))
}

func registerSessionEvents(r chi.Router, d deps.Deps) {
	r.Get("/api/session/events", handlers.SessionEvents(d))
}
