package mw

import (
	"encoding/json"
	"net/http"
)

// RequireSession answers 401 unless a user is signed in.
func RequireSession(sessions SessionSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, _ := sessions.Current(); !s.IsAuthenticated() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "not authenticated",
					"code":  "not_authenticated",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
