// Package public contiene los controllers de browsing sin autenticación:
// galería de obras, actividades y campañas de donación.
package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nusarupa/nusarupa/internal/domain"
	dto "github.com/nusarupa/nusarupa/internal/http/dto/resources"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/http/helpers"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/resource"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Controller expone las colecciones públicas vía readers de solo lectura.
type Controller struct {
	artworks   *resource.Reader[domain.Artwork]
	activities resource.ActivityReader
	donations  resource.DonationReader
}

// NewController crea el controller público sobre el table store.
func NewController(store tablestore.Store) *Controller {
	return &Controller{
		artworks:   resource.NewArtworkReader(store),
		activities: resource.NewActivityReader(store),
		donations:  resource.NewDonationReader(store),
	}
}

// ListArtworks maneja GET /v1/artworks?category=...&q=...
// La categoría "semua" (o "all", o ausente) desactiva el filtro.
func (c *Controller) ListArtworks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	var (
		items []domain.Artwork
		err   error
	)
	if term != "" {
		items, err = c.artworks.Search(ctx, term, category)
	} else {
		items, err = c.artworks.GetByCategory(ctx, category)
	}
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ArtworksFromDomain(items))
}

// GetArtwork maneja GET /v1/artworks/{id}.
func (c *Controller) GetArtwork(w http.ResponseWriter, r *http.Request) {
	item, err := c.artworks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.writeItemError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ArtworkFromDomain(item))
}

// ListActivities maneja GET /v1/activities?upcoming=1.
// Sin el flag devuelve todas las actividades por fecha ascendente.
func (c *Controller) ListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		items []domain.Activity
		err   error
	)
	if r.URL.Query().Get("upcoming") == "1" {
		items, err = c.activities.Upcoming(ctx)
	} else {
		items, err = c.activities.FetchAll(ctx)
	}
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ActivitiesFromDomain(items))
}

// GetActivity maneja GET /v1/activities/{id}.
func (c *Controller) GetActivity(w http.ResponseWriter, r *http.Request) {
	item, err := c.activities.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.writeItemError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ActivityFromDomain(item))
}

// ListDonations maneja GET /v1/donations: solo campañas activas.
func (c *Controller) ListDonations(w http.ResponseWriter, r *http.Request) {
	items, err := c.donations.Active(r.Context())
	if err != nil {
		c.writeListError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DonationsFromDomain(items))
}

// GetDonation maneja GET /v1/donations/{id}.
func (c *Controller) GetDonation(w http.ResponseWriter, r *http.Request) {
	item, err := c.donations.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.writeItemError(w, r, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DonationFromDomain(item))
}

func (c *Controller) writeListError(w http.ResponseWriter, r *http.Request, err error) {
	logger.From(r.Context()).Error("public list failed",
		logger.Layer("controller"),
		logger.Err(err),
	)
	httperrors.WriteError(w, httperrors.ErrInternalServerError.WithMessage(rootMessage(err)))
}

func (c *Controller) writeItemError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, tablestore.ErrNotFound) {
		httperrors.WriteError(w, httperrors.ErrNotFound.WithMessage(rootMessage(err)))
		return
	}
	c.writeListError(w, r, err)
}

// rootMessage extrae el mensaje de recurso con que el reader envuelve los
// errores ("Gagal memuat ..."), sin la causa técnica.
func rootMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ":"); i > 0 {
		return msg[:i]
	}
	return msg
}
