package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/mw"
)

func init() { Register(registerCatalog) }

func registerCatalog(r chi.Router, d deps.Deps) {
	gated := r.With(mw.RequireSession(d.Sessions))

	gated.Get("/api/catalog", handlers.Catalog(d))
	gated.Put("/api/catalog/category", handlers.SelectCategory(d))
	gated.Get("/api/catalog/{id}/watch", handlers.CatalogWatch(d))
}
