package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

type createResponse struct {
	ID string `json:"id"`
}

// CreateViAnime stores a flat string document in the vianimes collection.
func CreateViAnime(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var fields map[string]string
		if err := decode(w, r, &fields); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		id, err := d.ViAnimes.CreateViAnime(r.Context(), fields)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		d.Logger.Info("vianime created", logger.String("id", id))
		writeJSON(w, http.StatusCreated, createResponse{ID: id})
	}
}
