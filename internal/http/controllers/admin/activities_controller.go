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

// ActivitiesController maneja el CRUD de actividades del panel.
type ActivitiesController struct {
	hook *resource.Hook[domain.Activity]
}

// NewActivitiesController crea el controller de actividades.
func NewActivitiesController(hook *resource.Hook[domain.Activity]) *ActivitiesController {
	return &ActivitiesController{hook: hook}
}

// List maneja GET /v1/admin/activities.
func (c *ActivitiesController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.hook.FetchAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.ActivitiesFromDomain(items))
}

// Create maneja POST /v1/admin/activities.
func (c *ActivitiesController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateActivityRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if errs := validation.Activity(req.Title, req.Date, req.Time, req.Location); !errs.OK() {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(errs.Error()))
		return
	}

	item, err := c.hook.Create(r.Context(), req.Record())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	auditAction(r.Context(), "create", domain.CollectionActivities, item.ID)
	helpers.WriteJSON(w, http.StatusCreated, dto.ActivityFromDomain(item))
}

// Update maneja PATCH /v1/admin/activities/{id}.
func (c *ActivitiesController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateActivityRequest
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
	auditAction(r.Context(), "update", domain.CollectionActivities, item.ID)
	helpers.WriteJSON(w, http.StatusOK, dto.ActivityFromDomain(item))
}

// Delete maneja DELETE /v1/admin/activities/{id}.
func (c *ActivitiesController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.hook.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	auditAction(r.Context(), "delete", domain.CollectionActivities, id)
	w.WriteHeader(http.StatusNoContent)
}
