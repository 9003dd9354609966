package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/nusarupa/nusarupa/internal/http/middlewares"
)

// registerAuthRoutes registra login, registro, logout y el perfil propio.
func registerAuthRoutes(r chi.Router, deps Deps) {
	c := deps.Auth

	// Endpoints de credenciales: rate limit por IP para frenar fuerza bruta.
	r.Group(func(r chi.Router) {
		if deps.AuthLimiter != nil {
			r.Use(mw.WithRateLimit(mw.RateLimitConfig{
				Limiter: deps.AuthLimiter,
				KeyFunc: mw.IPPathRateKey,
			}))
		}

		r.Post("/v1/auth/login", c.Login)
		r.Post("/v1/auth/register", c.Register)
	})

	// Endpoints que requieren sesión válida.
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth(deps.Sessions))

		r.Post("/v1/auth/logout", c.Logout)
		r.Get("/v1/me", c.Me)
		r.Patch("/v1/me", c.UpdateMe)
	})
}
