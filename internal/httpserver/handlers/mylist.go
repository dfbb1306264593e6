package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

type listResponse struct {
	Items domain.BookmarkList `json:"items"`
	// Stale is set when the session changed while the call was in flight;
	// Items then holds the view as it is now.
	Stale bool `json:"stale,omitempty"`
}

type addResponse struct {
	Added domain.CatalogEntry `json:"added"`
	listResponse
}

// apply hands a fetched list to the view and answers with what the view shows.
func apply(d deps.Deps, epoch uint64, list domain.BookmarkList) listResponse {
	if !d.Mirror.Apply(epoch, list) {
		d.Logger.Debug("list result outlived its session, not shown",
			logger.Uint64("epoch", epoch))
		return listResponse{Items: d.Mirror.Items(), Stale: true}
	}
	return listResponse{Items: d.Mirror.Items()}
}

// LoadList pulls the remote list into the local replica. Remote failures
// yield an empty list.
func LoadList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, epoch := d.Sessions.Current()
		list := d.Lists.Load(r.Context(), epoch, s.Identity)
		writeJSON(w, http.StatusOK, apply(d, epoch, list))
	}
}

// LocalList shows the local replica without contacting the remote.
func LocalList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, epoch := d.Sessions.Current()
		list, err := d.Lists.Local(r.Context())
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, apply(d, epoch, list))
	}
}

type addRequest struct {
	ID string `json:"id"`
}

// AddToList bookmarks a catalog entry by its id.
func AddToList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}

		s, epoch := d.Sessions.Current()
		entry, list, err := d.Catalog.AddToList(r.Context(), epoch, s.Identity, req.ID)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, addResponse{
			Added:        entry,
			listResponse: apply(d, epoch, list.WithWatchLinks(d.Lists.FallbackBase())),
		})
	}
}

func RemoveFromList(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, epoch := d.Sessions.Current()
		list, err := d.Lists.Remove(r.Context(), epoch, s.Identity, chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, apply(d, epoch, list.WithWatchLinks(d.Lists.FallbackBase())))
	}
}

// ListWatch redirects to the watch page of a bookmarked item, using the
// fallback URL when the item has no link.
func ListWatch(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := d.Lists.Local(r.Context())
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		item, ok := list.Find(chi.URLParam(r, "id"))
		if !ok {
			writeError(w, d.Logger, r, domain.ErrNotFound)
			return
		}
		http.Redirect(w, r, d.Lists.ResolveWatchLink(item), http.StatusFound)
	}
}
