package router

import (
	"github.com/go-chi/chi/v5"
)

// registerPublicRoutes registra las rutas de solo lectura, sin autenticación.
// Son las mismas vistas que consume la landing pública.
func registerPublicRoutes(r chi.Router, deps Deps) {
	c := deps.Public

	r.Route("/v1", func(r chi.Router) {
		// GET /v1/artworks?category=lukisan&q=batik
		r.Get("/artworks", c.ListArtworks)
		r.Get("/artworks/{id}", c.GetArtwork)

		// GET /v1/activities?upcoming=1
		r.Get("/activities", c.ListActivities)
		r.Get("/activities/{id}", c.GetActivity)

		// GET /v1/donations: solo campañas activas
		r.Get("/donations", c.ListDonations)
		r.Get("/donations/{id}", c.GetDonation)
	})
}
