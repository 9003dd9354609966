// Package roles deriva la autorización de admin a partir de la sesión
// vigente. La resolución es asíncrona y SIEMPRE falla cerrada: un error de
// lookup jamás otorga admin.
package roles

import (
	"context"
	"sync"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/metrics"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/session"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Snapshot expone el estado de autorización.
// Loading=true significa "desconocido, no autorizar": ningún caller debe
// tratar ese estado como admin.
type Snapshot struct {
	IsAdmin bool
	Loading bool
}

// Resolver observa al session provider y re-resuelve el grant de admin en
// cada cambio de identidad.
type Resolver struct {
	store tablestore.Store

	mu      sync.RWMutex
	isAdmin bool
	loading bool
	gen     int // descarta resoluciones viejas que llegan tarde
	unsub   func()

	baseCtx context.Context
	wg      sync.WaitGroup
}

// NewResolver crea el resolver y lo suscribe al session provider.
// baseCtx limita las consultas en vuelo (cancelar en shutdown).
func NewResolver(baseCtx context.Context, store tablestore.Store, sess *session.Provider) *Resolver {
	r := &Resolver{store: store, baseCtx: baseCtx, loading: true}
	r.unsub = sess.Subscribe(r.onSessionChange)
	r.onSessionChange(sess.Snapshot())
	return r
}

// Snapshot devuelve la vista actual.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Snapshot{IsAdmin: r.isAdmin, Loading: r.loading}
}

// Close desuscribe y espera las resoluciones en vuelo.
func (r *Resolver) Close() {
	if r.unsub != nil {
		r.unsub()
	}
	r.wg.Wait()
}

func (r *Resolver) onSessionChange(snap session.Snapshot) {
	if snap.Loading {
		// Identidad aún desconocida: estado "unknown", nunca admin.
		r.mu.Lock()
		r.isAdmin = false
		r.loading = true
		r.gen++
		r.mu.Unlock()
		return
	}

	if snap.Session == nil {
		// Sin identidad: resuelto inmediato a no-admin, sin consulta.
		r.mu.Lock()
		r.isAdmin = false
		r.loading = false
		r.gen++
		r.mu.Unlock()
		return
	}

	userID := snap.Session.IdentityID

	r.mu.Lock()
	r.isAdmin = false
	r.loading = true
	r.gen++
	gen := r.gen
	r.mu.Unlock()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		isAdmin, err := HasAdminGrant(r.baseCtx, r.store, userID)
		if err != nil {
			// Fail closed: el error se loguea, no se muestra al usuario.
			logger.From(r.baseCtx).Error("admin role lookup failed",
				logger.Component("roles"),
				logger.UserID(userID),
				logger.Err(err),
			)
			isAdmin = false
			metrics.RoleResolutions.WithLabelValues("error").Inc()
		} else if isAdmin {
			metrics.RoleResolutions.WithLabelValues("admin").Inc()
		} else {
			metrics.RoleResolutions.WithLabelValues("not_admin").Inc()
		}

		r.mu.Lock()
		if r.gen == gen {
			r.isAdmin = isAdmin
			r.loading = false
		}
		r.mu.Unlock()
	}()
}

// HasAdminGrant consulta si existe un RoleGrant admin para la identidad.
// También lo usa el middleware HTTP, que resuelve por request.
func HasAdminGrant(ctx context.Context, store tablestore.Store, userID string) (bool, error) {
	rec, err := store.SelectOne(ctx, domain.CollectionUserRoles,
		tablestore.Eq("user_id", userID),
		tablestore.Eq("role", domain.RoleAdmin),
	)
	if err != nil {
		if tablestore.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	// Validación en frontera: un registro malformado no otorga admin.
	grant, err := domain.RoleGrantFromRecord(rec)
	if err != nil {
		return false, err
	}
	return grant.Role == domain.RoleAdmin, nil
}
