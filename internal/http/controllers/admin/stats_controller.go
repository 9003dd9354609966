package admin

import (
	"net/http"

	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/http/helpers"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/stats"
)

// StatsController expone los contadores del dashboard.
type StatsController struct {
	svc *stats.Service
}

// NewStatsController crea el controller de estadísticas.
func NewStatsController(svc *stats.Service) *StatsController {
	return &StatsController{svc: svc}
}

// Dashboard maneja GET /v1/admin/stats.
func (c *StatsController) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dash, err := c.svc.Dashboard(ctx)
	if err != nil {
		logger.From(ctx).Error("dashboard stats failed",
			logger.Layer("controller"),
			logger.Op("StatsController.Dashboard"),
			logger.Err(err),
		)
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dash)
}
