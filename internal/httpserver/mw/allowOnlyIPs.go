package mw

import (
	"net/http"

	"github.com/MrSnakeDoc/vianime/internal/logger"
)

// AllowOnlyCIDRS restricts access to the given IPs and CIDRs.
// An empty list lets everything through.
func AllowOnlyCIDRS(allowed []string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	nets := parseNetworks(allowed)
	if len(nets) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r, trustProxy)
			if !nets.contains(ip) {
				log.Debug("request rejected by network filter",
					logger.String("ip", ip),
					logger.String("path", r.URL.Path))
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
