package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/handlers"
)

func init() { Register(registerMyList) }

// The list routes are not gated: load and remove have defined behavior
// without a session, and add fails with not_authenticated on its own.
func registerMyList(r chi.Router, d deps.Deps) {
	r.Get("/api/mylist", handlers.LoadList(d))
	r.Get("/api/mylist/local", handlers.LocalList(d))
	r.Post("/api/mylist", handlers.AddToList(d))
	r.Delete("/api/mylist/{id}", handlers.RemoveFromList(d))
	r.Get("/api/mylist/{id}/watch", handlers.ListWatch(d))
}
