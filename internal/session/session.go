// Package session mantiene la fuente única de verdad sobre "quién está
// usando la aplicación". Se construye una vez en el root de la app y se
// pasa por inyección de dependencias; nunca como global ad hoc.
package session

import (
	"context"
	"sync"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/identity"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
)

// Snapshot es la vista de solo-lectura que consumen guards y providers.
// Loading es true únicamente durante el bootstrap inicial, no durante
// operaciones posteriores.
type Snapshot struct {
	Session *domain.Session // nil = "none"
	Loading bool
}

// Authenticated reporta si hay una identidad vigente.
func (s Snapshot) Authenticated() bool {
	return s.Session != nil
}

// Provider posee el estado de sesión en exclusiva (single-writer).
// Los lectores solo acceden vía Snapshot/Subscribe.
type Provider struct {
	idp identity.Provider

	mu        sync.RWMutex
	current   *domain.Session
	loading   bool
	unsub     func()
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewProvider crea el provider en estado "loading" hasta Bootstrap.
func NewProvider(idp identity.Provider) *Provider {
	return &Provider{
		idp:       idp,
		loading:   true,
		listeners: make(map[int]func(Snapshot)),
	}
}

// Bootstrap consulta la sesión existente y se suscribe a los cambios del
// identity provider por el resto de la vida de la aplicación.
// Un error del provider deja la sesión en "none" (no es fatal).
func (p *Provider) Bootstrap(ctx context.Context) {
	log := logger.From(ctx).With(
		logger.Layer("provider"),
		logger.Component("session"),
		logger.Op("Bootstrap"),
	)

	sess, err := p.idp.CurrentSession(ctx)
	if err != nil {
		log.Warn("initial session lookup failed", logger.Err(err))
		sess = nil
	}

	unsub := p.idp.OnSessionChange(func(s *domain.Session) {
		p.set(s, false)
	})

	p.mu.Lock()
	p.unsub = unsub
	if !p.loading {
		// Un cambio del provider llegó entre la suscripción y este punto.
		// Ese resultado es más fresco que el lookup inicial: no pisarlo.
		p.mu.Unlock()
		return
	}
	p.current = sess
	p.loading = false
	p.mu.Unlock()
	p.broadcast()

	if sess != nil {
		log.Info("session restored", logger.UserID(sess.IdentityID))
	} else {
		log.Debug("no existing session")
	}
}

// Close desuscribe del identity provider (teardown de la app).
func (p *Provider) Close() {
	p.mu.Lock()
	unsub := p.unsub
	p.unsub = nil
	p.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Snapshot devuelve la vista actual. Nunca bloquea por operaciones en vuelo.
func (p *Provider) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{Session: p.current, Loading: p.loading}
}

// Subscribe registra un observer de cambios de snapshot.
func (p *Provider) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.listeners, id)
	}
}

// SignIn delega en el identity provider. En fallo la sesión queda sin tocar
// y el error (ej. identity.ErrInvalidCredentials) vuelve al caller para el
// formulario.
func (p *Provider) SignIn(ctx context.Context, email, password string) error {
	sess, err := p.idp.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	p.set(sess, false)
	return nil
}

// SignUp es análogo a SignIn; identity.ErrEmailTaken es distinguible.
func (p *Provider) SignUp(ctx context.Context, email, password, displayName string) error {
	sess, err := p.idp.SignUp(ctx, email, password, displayName)
	if err != nil {
		return err
	}
	p.set(sess, false)
	return nil
}

// SignOut limpia la sesión local incondicionalmente: la UI siempre puede
// volver al estado deslogueado aunque la llamada remota falle.
func (p *Provider) SignOut(ctx context.Context) error {
	err := p.idp.SignOut(ctx)
	p.set(nil, false)
	if err != nil {
		logger.From(ctx).Warn("remote sign-out failed",
			logger.Component("session"),
			logger.Err(err),
		)
	}
	return nil
}

func (p *Provider) set(sess *domain.Session, loading bool) {
	p.mu.Lock()
	changed := !sameIdentity(p.current, sess) || p.loading != loading
	p.current = sess
	p.loading = loading
	p.mu.Unlock()
	if changed {
		p.broadcast()
	}
}

func (p *Provider) broadcast() {
	snap := p.Snapshot()
	p.mu.RLock()
	fns := make([]func(Snapshot), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func sameIdentity(a, b *domain.Session) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.IdentityID == b.IdentityID
}
