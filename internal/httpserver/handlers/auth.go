package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/nav"
)

type sessionResponse struct {
	Session       domain.Session `json:"session"`
	Authenticated bool           `json:"authenticated"`
	Route         nav.Route      `json:"route"`
	Epoch         uint64         `json:"epoch"`
}

func currentSession(d deps.Deps) sessionResponse {
	s, epoch := d.Sessions.Current()
	return sessionResponse{
		Session:       s,
		Authenticated: s.IsAuthenticated(),
		Route:         d.Navigator.Current(),
		Epoch:         epoch,
	}
}

func SignIn(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		if err := decode(w, r, &creds); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		if _, err := d.Sessions.SignIn(r.Context(), creds); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, currentSession(d))
	}
}

func SignUp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds domain.Credentials
		if err := decode(w, r, &creds); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		if _, err := d.Sessions.SignUp(r.Context(), creds); err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, currentSession(d))
	}
}

// SignOut always ends the local session. Failures of the remote or cache
// steps are reported after the fact.
func SignOut(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.Sessions.SignOut(r.Context())
		d.Mirror.Reset()
		if err != nil {
			writeError(w, d.Logger, r, err)
			return
		}
		writeJSON(w, http.StatusOK, currentSession(d))
	}
}
