package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
)

const probeTimeout = 2 * time.Second

type readyzResponse struct {
	Ready      bool `json:"ready"`
	Remote     bool `json:"remote"`
	LocalCache bool `json:"local_cache"`
	Catalog    bool `json:"catalog"`
}

// Readyz answers 503 until the remote store and local cache respond and the
// catalog holds entries.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		resp := readyzResponse{
			Remote:     pingRemote(ctx, d) == nil,
			LocalCache: pingCache(ctx, d) == nil,
			Catalog:    d.CatalogIndex != nil && d.CatalogIndex.Count() > 0,
		}
		resp.Ready = resp.Remote && resp.LocalCache && resp.Catalog

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
