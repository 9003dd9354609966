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

// DonationsController maneja el CRUD de campañas de donación del panel.
// A diferencia del reader público, acá se ven también las inactivas.
type DonationsController struct {
	hook *resource.Hook[domain.Donation]
}

// NewDonationsController crea el controller de donaciones.
func NewDonationsController(hook *resource.Hook[domain.Donation]) *DonationsController {
	return &DonationsController{hook: hook}
}

// List maneja GET /v1/admin/donations.
func (c *DonationsController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.hook.FetchAll(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.DonationsFromDomain(items))
}

// Create maneja POST /v1/admin/donations.
func (c *DonationsController) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDonationRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if errs := validation.Donation(req.Title, req.TargetAmount, 0); !errs.OK() {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(errs.Error()))
		return
	}

	item, err := c.hook.Create(r.Context(), req.Record())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	auditAction(r.Context(), "create", domain.CollectionDonations, item.ID)
	helpers.WriteJSON(w, http.StatusCreated, dto.DonationFromDomain(item))
}

// Update maneja PATCH /v1/admin/donations/{id}.
func (c *DonationsController) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDonationRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if req.CollectedAmount != nil && *req.CollectedAmount < 0 {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("collected_amount: Jumlah terkumpul tidak boleh negatif"))
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
	auditAction(r.Context(), "update", domain.CollectionDonations, item.ID)
	helpers.WriteJSON(w, http.StatusOK, dto.DonationFromDomain(item))
}

// Delete maneja DELETE /v1/admin/donations/{id}.
func (c *DonationsController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := c.hook.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	auditAction(r.Context(), "delete", domain.CollectionDonations, id)
	w.WriteHeader(http.StatusNoContent)
}
