// Package router arma el árbol de rutas HTTP completo sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	adminctrl "github.com/nusarupa/nusarupa/internal/http/controllers/admin"
	authctrl "github.com/nusarupa/nusarupa/internal/http/controllers/auth"
	healthctrl "github.com/nusarupa/nusarupa/internal/http/controllers/health"
	publicctrl "github.com/nusarupa/nusarupa/internal/http/controllers/public"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	mw "github.com/nusarupa/nusarupa/internal/http/middlewares"
	"github.com/nusarupa/nusarupa/internal/rate"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Deps contiene todas las dependencias del router.
type Deps struct {
	// Controllers
	Health *healthctrl.HealthController
	Auth   *authctrl.Controller
	Public *publicctrl.Controller
	Admin  *adminctrl.Controllers

	// Identidad y autorización
	Sessions mw.SessionResolver
	Store    tablestore.Store

	// Opcional: rate limiter para los endpoints de credenciales.
	AuthLimiter rate.Limiter

	// Opcional: handler de métricas (RegisterMetrics) montado en /metrics.
	Metrics http.Handler

	// Opcional: directorio raíz del object store local, servido en /storage/.
	StorageRoot string

	// CORS
	AllowedOrigins []string
}

// New construye el router principal con todos los middlewares globales.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// ===========================================================================
	// Middlewares globales
	// ===========================================================================
	r.Use(mw.WithRequestID())
	r.Use(mw.WithRecover())
	r.Use(mw.WithMetrics())
	r.Use(mw.WithCORS(deps.AllowedOrigins))
	r.Use(mw.WithLogging())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, deps)
	registerPublicRoutes(r, deps)
	registerAuthRoutes(r, deps)
	registerAdminRoutes(r, deps)

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	if deps.StorageRoot != "" {
		// Sirve los archivos subidos al object store local. En producción
		// con un CDN delante esta ruta no se monta.
		fs := http.StripPrefix("/storage/", http.FileServer(http.Dir(deps.StorageRoot)))
		r.Method(http.MethodGet, "/storage/*", fs)
	}

	return r
}
