package admin

import (
	"net/http"

	"github.com/nusarupa/nusarupa/internal/domain"
	dto "github.com/nusarupa/nusarupa/internal/http/dto/resources"
	"github.com/nusarupa/nusarupa/internal/http/helpers"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// ProfilesController lista los perfiles de usuarios registrados.
type ProfilesController struct {
	store tablestore.Store
}

// NewProfilesController crea el controller de perfiles.
func NewProfilesController(store tablestore.Store) *ProfilesController {
	return &ProfilesController{store: store}
}

// List maneja GET /v1/admin/profiles.
func (c *ProfilesController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recs, err := c.store.Select(ctx, domain.CollectionProfiles, tablestore.Query{
		Order: tablestore.Order{Field: "created_at", Ascending: false},
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	items := make([]domain.Profile, 0, len(recs))
	for _, rec := range recs {
		p, err := domain.ProfileFromRecord(rec)
		if err != nil {
			// Registro malformado: se omite, no tumba el listado entero.
			logger.From(ctx).Warn("skipping malformed profile",
				logger.Collection(domain.CollectionProfiles),
				logger.Err(err),
			)
			continue
		}
		items = append(items, p)
	}

	helpers.WriteJSON(w, http.StatusOK, dto.ProfilesFromDomain(items))
}
