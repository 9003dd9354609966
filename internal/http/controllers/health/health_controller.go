// Package health contiene los controllers de health check.
package health

import (
	"net/http"
	"time"

	"github.com/nusarupa/nusarupa/internal/cache"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/http/helpers"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// ComponentStatus es el estado de un componente individual.
type ComponentStatus struct {
	Status  string `json:"status"` // "ok" | "error"
	Message string `json:"message,omitempty"`
}

// Response es la respuesta de /readyz.
type Response struct {
	Status     string                     `json:"status"` // "ready" | "unavailable"
	Components map[string]ComponentStatus `json:"components"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// HealthController maneja las rutas de health check.
type HealthController struct {
	store tablestore.Store
	cache cache.Client
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(store tablestore.Store, c cache.Client) *HealthController {
	return &HealthController{store: store, cache: c}
}

// Healthz maneja GET /healthz: liveness sin tocar dependencias.
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Readyz maneja GET /readyz: verifica table store y cache.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("HealthController.Readyz"))

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
		return
	}

	resp := Response{
		Status:     "ready",
		Components: make(map[string]ComponentStatus),
		Timestamp:  time.Now().UTC(),
	}

	if err := c.store.Ping(ctx); err != nil {
		resp.Components["tablestore"] = ComponentStatus{Status: "error", Message: err.Error()}
		resp.Status = "unavailable"
		log.Error("tablestore unavailable", logger.Err(err))
	} else {
		resp.Components["tablestore"] = ComponentStatus{Status: "ok"}
	}

	if err := c.cache.Ping(ctx); err != nil {
		resp.Components["cache"] = ComponentStatus{Status: "error", Message: err.Error()}
		resp.Status = "unavailable"
		log.Error("cache unavailable", logger.Err(err))
	} else {
		resp.Components["cache"] = ComponentStatus{Status: "ok"}
	}

	status := http.StatusOK
	if resp.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}
