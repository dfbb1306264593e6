package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vianime/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/vianime/internal/httpserver/mw"
)

func init() { Register(registerAuth) }

func registerAuth(r chi.Router, d deps.Deps) {
	limited := r.With(mw.RateLimit(mw.RateLimitConfig{
		Scope:        "auth",
		Burst:        d.AuthRateBurst,
		RefillPerMin: d.AuthRatePerMin,
		MaxEntries:   10000,
		TrustProxy:   d.TrustProxy,
	}, d.Logger))

	limited.Post("/api/auth/signin", handlers.SignIn(d))
	limited.Post("/api/auth/signup", handlers.SignUp(d))
	r.Post("/api/auth/signout", handlers.SignOut(d))
}
