package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/logger"
	"github.com/MrSnakeDoc/vianime/internal/nav"
)

func Session(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentSession(d))
	}
}

type sessionEvent struct {
	Session       domain.Session `json:"session"`
	Authenticated bool           `json:"authenticated"`
	Route         nav.Route      `json:"route"`
}

// SessionEvents streams one server-sent event per session transition,
// starting with the current session, until the client goes away.
func SessionEvents(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		sub := d.Sessions.Observe(r.Context())
		defer sub.Cancel()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			var s domain.Session
			select {
			case v, ok := <-sub.C():
				if !ok {
					return
				}
				s = v
			case <-d.Done:
				return
			}

			payload, err := json.Marshal(sessionEvent{
				Session:       s,
				Authenticated: s.IsAuthenticated(),
				Route:         d.Navigator.Current(),
			})
			if err != nil {
				d.Logger.Error("failed to encode session event", logger.Error(err))
				return
			}
			if _, err := fmt.Fprintf(w, "event: session\ndata: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type navigateRequest struct {
	Route string `json:"route"`
}

type navigateResponse struct {
	Route nav.Route `json:"route"`
}

// Navigate switches the current view. Views that need a session are refused
// while signed out.
func Navigate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req navigateRequest
		if err := decode(w, r, &req); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		route, err := nav.ParseRoute(req.Route)
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		if s, _ := d.Sessions.Current(); route.RequiresSession() && !s.IsAuthenticated() {
			writeError(w, d.Logger, r, domain.ErrNotAuthenticated)
			return
		}
		d.Navigator.NavigateTo(route)
		writeJSON(w, http.StatusOK, navigateResponse{Route: route})
	}
}
