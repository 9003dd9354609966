package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/nusarupa/nusarupa/internal/http/middlewares"
)

// registerAdminRoutes registra el panel de administración completo.
// Todo el subárbol exige sesión válida y rol admin; la resolución del rol
// consulta user_roles directamente y falla cerrado.
func registerAdminRoutes(r chi.Router, deps Deps) {
	a := deps.Admin

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(mw.RequireAuth(deps.Sessions))
		r.Use(mw.RequireAdmin(deps.Store))

		r.Route("/artworks", func(r chi.Router) {
			r.Get("/", a.Artworks.List)
			r.Post("/", a.Artworks.Create)
			r.Patch("/{id}", a.Artworks.Update)
			r.Delete("/{id}", a.Artworks.Delete)
		})

		r.Route("/activities", func(r chi.Router) {
			r.Get("/", a.Activities.List)
			r.Post("/", a.Activities.Create)
			r.Patch("/{id}", a.Activities.Update)
			r.Delete("/{id}", a.Activities.Delete)
		})

		r.Route("/donations", func(r chi.Router) {
			r.Get("/", a.Donations.List)
			r.Post("/", a.Donations.Create)
			r.Patch("/{id}", a.Donations.Update)
			r.Delete("/{id}", a.Donations.Delete)
		})

		r.Get("/stats", a.Stats.Dashboard)
		r.Post("/uploads", a.Uploads.Upload)
		r.Get("/profiles", a.Profiles.List)
	})
}
