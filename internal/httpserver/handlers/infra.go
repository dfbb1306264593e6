package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
)

var errNotConfigured = errors.New("not configured")

type componentStatus struct {
	OK         bool   `json:"ok"`
	Entries    *int   `json:"entries,omitempty"`
	Source     string `json:"source,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Session    string                     `json:"session"`
	Route      string                     `json:"route"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every backing component.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		components := map[string]componentStatus{
			"catalog":     catalogStatus(d),
			"remote":      probe(pingRemote(ctx, d), "sign-in, list sync and feedback unavailable"),
			"local_cache": probe(pingCache(ctx, d), "session and list not persisted on this device"),
		}

		s, _ := d.Sessions.Current()
		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       mode(components),
			Session:    s.String(),
			Route:      string(d.Navigator.Current()),
			Components: components,
		})
	}
}

func catalogStatus(d deps.Deps) componentStatus {
	if d.CatalogIndex == nil {
		return componentStatus{Error: errNotConfigured.Error()}
	}
	count := d.CatalogIndex.Count()
	last := "never"
	if t := d.CatalogIndex.LastReload(); !t.IsZero() {
		last = t.Format("2006-01-02 15:04:05")
	}
	return componentStatus{
		OK:         count > 0,
		Entries:    &count,
		Source:     d.CatalogIndex.Source(),
		LastReload: last,
	}
}

func probe(err error, impact string) componentStatus {
	if err != nil {
		return componentStatus{Impact: impact, Error: err.Error()}
	}
	return componentStatus{OK: true}
}

// mode is "critical" without a catalog, "degraded" when a store is down.
func mode(components map[string]componentStatus) string {
	if !components["catalog"].OK {
		return "critical"
	}
	for _, c := range components {
		if !c.OK {
			return "degraded"
		}
	}
	return "operational"
}

func pingRemote(ctx context.Context, d deps.Deps) error {
	if d.RedisClient == nil {
		return errNotConfigured
	}
	return d.RedisClient.Ping(ctx).Err()
}

func pingCache(ctx context.Context, d deps.Deps) error {
	if d.LocalCache == nil {
		return errNotConfigured
	}
	return d.LocalCache.Ping(ctx)
}
