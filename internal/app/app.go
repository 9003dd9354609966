// Package app arma el grafo de dependencias completo del servicio: config,
// store, cache, identidad, hooks y el router HTTP.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nusarupa/nusarupa/internal/cache"
	"github.com/nusarupa/nusarupa/internal/config"
	adminctrl "github.com/nusarupa/nusarupa/internal/http/controllers/admin"
	authctrl "github.com/nusarupa/nusarupa/internal/http/controllers/auth"
	healthctrl "github.com/nusarupa/nusarupa/internal/http/controllers/health"
	publicctrl "github.com/nusarupa/nusarupa/internal/http/controllers/public"
	mw "github.com/nusarupa/nusarupa/internal/http/middlewares"
	"github.com/nusarupa/nusarupa/internal/http/router"
	"github.com/nusarupa/nusarupa/internal/identity/local"
	"github.com/nusarupa/nusarupa/internal/notify"
	"github.com/nusarupa/nusarupa/internal/objectstore/fs"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/rate"
	"github.com/nusarupa/nusarupa/internal/resource"
	"github.com/nusarupa/nusarupa/internal/roles"
	"github.com/nusarupa/nusarupa/internal/session"
	"github.com/nusarupa/nusarupa/internal/stats"
	"github.com/nusarupa/nusarupa/internal/tablestore"
	"github.com/nusarupa/nusarupa/internal/tablestore/memory"
	"github.com/nusarupa/nusarupa/internal/tablestore/pg"
)

// App contiene el servicio ya cableado y listo para servir.
type App struct {
	Cfg *config.Config

	Store    tablestore.Store
	Cache    cache.Client
	Objects  *fs.Store
	Identity *local.Provider
	Sessions *session.Provider
	Roles    *roles.Resolver

	Handler http.Handler

	closers []func()
}

// New construye la app completa desde la configuración.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Cfg: cfg}

	// ===========================================================================
	// Table store
	// ===========================================================================
	var pool func() *pgxpool.Pool
	switch cfg.Storage.Driver {
	case "memory":
		a.Store = memory.New()
	default:
		st, err := pg.New(ctx, cfg.Storage.DSN, pg.Config{
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			MinIdleConns:    cfg.Storage.Postgres.MinIdleConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("app: table store: %w", err)
		}
		a.Store = st
		pool = st.Pool
	}
	a.closers = append(a.closers, a.Store.Close)

	// ===========================================================================
	// Cache
	// ===========================================================================
	c, err := cache.New(cache.Config{
		Driver:     cfg.Cache.Kind,
		Addr:       cfg.Cache.Redis.Addr,
		Password:   cfg.Cache.Redis.Password,
		DB:         cfg.Cache.Redis.DB,
		Prefix:     cfg.Cache.Redis.Prefix,
		DefaultTTL: config.Dur(cfg.Cache.Memory.DefaultTTL, 2*time.Minute),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: cache: %w", err)
	}
	a.Cache = c
	a.closers = append(a.closers, func() { _ = c.Close() })

	// ===========================================================================
	// Identidad y sesión
	// ===========================================================================
	idp, err := local.New(a.Store, a.Cache, local.Config{
		Secret:     cfg.Auth.Secret,
		Issuer:     cfg.Auth.Issuer,
		SessionTTL: config.Dur(cfg.Auth.SessionTTL, 24*time.Hour),
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: identity: %w", err)
	}
	a.Identity = idp

	a.Sessions = session.NewProvider(idp)
	a.Sessions.Bootstrap(ctx)
	a.closers = append(a.closers, a.Sessions.Close)

	a.Roles = roles.NewResolver(ctx, a.Store, a.Sessions)
	a.closers = append(a.closers, a.Roles.Close)

	// ===========================================================================
	// Object store y notificaciones
	// ===========================================================================
	a.Objects = fs.New(cfg.Uploads.Dir, cfg.Uploads.BaseURL)

	notifier := notify.Discard
	if cfg.SMTP.Host != "" && cfg.SMTP.AdminTo != "" {
		notifier = &notify.Email{
			Host:               cfg.SMTP.Host,
			Port:               cfg.SMTP.Port,
			From:               cfg.SMTP.From,
			To:                 cfg.SMTP.AdminTo,
			User:               cfg.SMTP.Username,
			Pass:               cfg.SMTP.Password,
			InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		}
	}

	// ===========================================================================
	// Hooks y controllers
	// ===========================================================================
	hooks := adminctrl.Hooks{
		Artworks:   resource.NewHook(a.Store, a.Objects, notifier, resource.Artworks()),
		Activities: resource.NewHook(a.Store, a.Objects, notifier, resource.Activities()),
		Donations:  resource.NewHook(a.Store, a.Objects, notifier, resource.Donations()),
	}

	metricsHandler, err := mw.RegisterMetrics(mw.MetricsConfig{
		Registry: prometheus.DefaultRegisterer,
		Pool:     pool,
	})
	if err != nil {
		logger.L().Warn("metrics registration failed", logger.Err(err))
	}

	var authLimiter rate.Limiter
	if cfg.Rate.Enabled {
		authLimiter = rate.NewWindowLimiter(a.Cache, "rl:auth:",
			cfg.Rate.Login.Limit,
			config.Dur(cfg.Rate.Login.Window, time.Minute),
		)
	}

	a.Handler = router.New(router.Deps{
		Health:         healthctrl.NewHealthController(a.Store, a.Cache),
		Auth:           authctrl.NewController(idp),
		Public:         publicctrl.NewController(a.Store),
		Admin:          adminctrl.NewControllers(hooks, stats.NewService(a.Store), a.Store),
		Sessions:       idp,
		Store:          a.Store,
		AuthLimiter:    authLimiter,
		Metrics:        metricsHandler,
		StorageRoot:    a.Objects.Root(),
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
	})

	return a, nil
}

// Close libera los recursos en orden inverso al armado.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
