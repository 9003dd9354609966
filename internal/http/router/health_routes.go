package router

import (
	"github.com/go-chi/chi/v5"
)

// registerHealthRoutes registra los endpoints de liveness y readiness.
func registerHealthRoutes(r chi.Router, deps Deps) {
	r.Get("/healthz", deps.Health.Healthz)
	r.Get("/readyz", deps.Health.Readyz)
}
