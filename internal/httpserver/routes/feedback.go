package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/handlers"
)

func init() { Register(registerFeedback) }

// Feedback stays reachable without a session; it is then filed as guest.
func registerFeedback(r chi.Router, d deps.Deps) {
	r.Get("/api/feedback/draft", handlers.GetDraft(d))
	r.Put("/api/feedback/draft", handlers.PutDraft(d))
	r.Post("/api/feedback", handlers.SubmitFeedback(d))
}
