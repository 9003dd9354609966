// Package admin contiene los controllers del panel de administración.
// Todas las rutas que los usan van detrás de RequireAuth + RequireAdmin.
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/nusarupa/nusarupa/internal/audit"
	"github.com/nusarupa/nusarupa/internal/domain"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/http/middlewares"
	"github.com/nusarupa/nusarupa/internal/resource"
	"github.com/nusarupa/nusarupa/internal/stats"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Hooks agrupa los hooks CRUD que comparte el panel.
type Hooks struct {
	Artworks   *resource.Hook[domain.Artwork]
	Activities *resource.Hook[domain.Activity]
	Donations  *resource.Hook[domain.Donation]
}

// Controllers agrupa todos los controllers del dominio admin.
type Controllers struct {
	Artworks   *ArtworksController
	Activities *ActivitiesController
	Donations  *DonationsController
	Stats      *StatsController
	Uploads    *UploadsController
	Profiles   *ProfilesController
}

// NewControllers crea el agregador de controllers admin.
func NewControllers(h Hooks, statsSvc *stats.Service, store tablestore.Store) *Controllers {
	return &Controllers{
		Artworks:   NewArtworksController(h.Artworks),
		Activities: NewActivitiesController(h.Activities),
		Donations:  NewDonationsController(h.Donations),
		Stats:      NewStatsController(statsSvc),
		Uploads:    NewUploadsController(h),
		Profiles:   NewProfilesController(store),
	}
}

// auditAction deja rastro de la mutación con el actor tomado del contexto.
func auditAction(ctx context.Context, action, collection, resourceID string) {
	audit.Log(ctx, audit.Event{
		Action:     action,
		Collection: collection,
		ResourceID: resourceID,
		ActorID:    middlewares.GetUserID(ctx),
	})
}

// writeStoreError mapea errores del table store a respuestas HTTP.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		httperrors.WriteError(w, httperrors.ErrNotFound)
	case errors.Is(err, tablestore.ErrConflict):
		httperrors.WriteError(w, httperrors.ErrConflict)
	case errors.Is(err, tablestore.ErrInvalid):
		httperrors.WriteError(w, httperrors.ErrBadRequest)
	default:
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
	}
}
