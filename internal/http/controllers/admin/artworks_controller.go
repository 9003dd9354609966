package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nusarupa/nusarupa/internal/domain"
	dto "github.com/nusarupa/nusarupa/internal/http/dto/resources"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/http/helpers"
	"github.com/nusarupa/nusarupa/internal/resource"
	"github.com/nusarupa/nusarupa/internal/validation"
)

// ArtworksController maneja el CRUD de obras del panel.
type ArtworksController struct {
	hook *resource.Hook[domain.Artwork]
}

// NewArtworksController crea el controller de obras.
func NewArtworksController(hook *resource.Hook[domain.Artwork]) *ArtworksController {
	return &ArtworksController{hook: hook}
}

// List maneja GET /v1/admin/artworks: snapshot fresco del server.
func (c *ArtworksController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.hook.FetchAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ArtworksFromDomain(items))
}

// Create maneja POST /v1/admin/artworks.
func (c *ArtworksController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateArtworkRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if errs := validation.Artwork(req.Title, req.Author, req.Category); !errs.OK() {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(errs.Error()))
		return
	}

	item, err := c.hook.Create(r.Context(), req.Record())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	auditAction(r.Context(), "create", domain.CollectionArtworks, item.ID)
	helpers.WriteJSON(w, http.StatusCreated, dto.ArtworkFromDomain(item))
}

// Update maneja PATCH /v1/admin/artworks/{id}.
func (c *ArtworksController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateArtworkRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	patch := req.Record()
	if len(patch) == 0 {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("patch kosong"))
		return
	}

	item, err := c.hook.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	auditAction(r.Context(), "update", domain.CollectionArtworks, item.ID)
	helpers.WriteJSON(w, http.StatusOK, dto.ArtworkFromDomain(item))
}

// Delete maneja DELETE /v1/admin/artworks/{id}.
func (c *ArtworksController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.hook.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	auditAction(r.Context(), "delete", domain.CollectionArtworks, id)
	w.WriteHeader(http.StatusNoContent)
}
