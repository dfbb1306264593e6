package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
)

type catalogResponse struct {
	Category   string                `json:"category"`
	Categories []string              `json:"categories"`
	Query      string                `json:"query,omitempty"`
	Entries    []domain.CatalogEntry `json:"entries"`
}

// Catalog lists the entries of ?category= (default: active) matching ?q=.
func Catalog(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category")
		query := r.URL.Query().Get("q")

		entries, err := d.Catalog.Entries(category, query)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		if category == "" {
			category = d.Catalog.Active()
		}
		writeJSON(w, http.StatusOK, catalogResponse{
			Category:   category,
			Categories: d.Catalog.Categories(),
			Query:      query,
			Entries:    entries,
		})
	}
}

type selectCategoryRequest struct {
	Name string `json:"name"`
}

func SelectCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req selectCategoryRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		entries, err := d.Catalog.SelectCategory(req.Name)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, catalogResponse{
			Category:   req.Name,
			Categories: d.Catalog.Categories(),
			Entries:    entries,
		})
	}
}

// CatalogWatch redirects to the entry's external watch page.
func CatalogWatch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		link, err := d.Catalog.OpenLink(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		http.Redirect(w, r, link, http.StatusFound)
	}
}
