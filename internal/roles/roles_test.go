package roles_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/identity"
	"github.com/nusarupa/nusarupa/internal/roles"
	"github.com/nusarupa/nusarupa/internal/session"
	"github.com/nusarupa/nusarupa/internal/tablestore"
	"github.com/nusarupa/nusarupa/internal/tablestore/memory"
)

// scriptedIdentity entrega una sesión fija y permite emitir cambios.
type scriptedIdentity struct {
	current   *domain.Session
	listeners []func(*domain.Session)
}

func (s *scriptedIdentity) CurrentSession(ctx context.Context) (*domain.Session, error) {
	return s.current, nil
}
func (s *scriptedIdentity) OnSessionChange(fn func(*domain.Session)) func() {
	s.listeners = append(s.listeners, fn)
	return func() {}
}
func (s *scriptedIdentity) emit(sess *domain.Session) {
	for _, fn := range s.listeners {
		fn(sess)
	}
}
func (s *scriptedIdentity) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, identity.ErrInvalidCredentials
}
func (s *scriptedIdentity) SignUp(ctx context.Context, email, password, name string) (*domain.Session, error) {
	return nil, identity.ErrInvalidCredentials
}
func (s *scriptedIdentity) SignOut(ctx context.Context) error                          { return nil }
func (s *scriptedIdentity) UpdateCurrentUser(ctx context.Context, p map[string]any) error { return nil }

// erroringStore falla todo SelectOne con un error de transporte.
type erroringStore struct {
	tablestore.Store
	err error
}

func (e *erroringStore) SelectOne(ctx context.Context, collection string, conds ...tablestore.Cond) (tablestore.Record, error) {
	return nil, e.err
}

func grantAdmin(t *testing.T, store tablestore.Store, userID string) {
	t.Helper()
	_, err := store.Insert(context.Background(), domain.CollectionUserRoles, tablestore.Record{
		"user_id": userID,
		"role":    domain.RoleAdmin,
	})
	require.NoError(t, err)
}

func bootSession(t *testing.T, idp identity.Provider) *session.Provider {
	t.Helper()
	p := session.NewProvider(idp)
	p.Bootstrap(context.Background())
	t.Cleanup(p.Close)
	return p
}

func TestResolverGrantsAdmin(t *testing.T) {
	store := memory.New()
	grantAdmin(t, store, "u1")

	idp := &scriptedIdentity{current: &domain.Session{IdentityID: "u1"}}
	sess := bootSession(t, idp)

	r := roles.NewResolver(context.Background(), store, sess)
	defer r.Close()

	assert.Eventually(t, func() bool {
		snap := r.Snapshot()
		return !snap.Loading && snap.IsAdmin
	}, time.Second, 10*time.Millisecond)
}

func TestResolverNoGrant(t *testing.T) {
	store := memory.New()
	idp := &scriptedIdentity{current: &domain.Session{IdentityID: "u1"}}
	sess := bootSession(t, idp)

	r := roles.NewResolver(context.Background(), store, sess)
	defer r.Close()

	assert.Eventually(t, func() bool {
		snap := r.Snapshot()
		return !snap.Loading && !snap.IsAdmin
	}, time.Second, 10*time.Millisecond)
}

func TestResolverFailsClosedOnLookupError(t *testing.T) {
	store := &erroringStore{err: errors.New("db caída")}
	idp := &scriptedIdentity{current: &domain.Session{IdentityID: "u1"}}
	sess := bootSession(t, idp)

	r := roles.NewResolver(context.Background(), store, sess)
	defer r.Close()

	assert.Eventually(t, func() bool {
		snap := r.Snapshot()
		return !snap.Loading && !snap.IsAdmin
	}, time.Second, 10*time.Millisecond)
}

func TestResolverSignOutRevokes(t *testing.T) {
	store := memory.New()
	grantAdmin(t, store, "u1")

	idp := &scriptedIdentity{current: &domain.Session{IdentityID: "u1"}}
	sess := bootSession(t, idp)

	r := roles.NewResolver(context.Background(), store, sess)
	defer r.Close()

	assert.Eventually(t, func() bool { return r.Snapshot().IsAdmin }, time.Second, 10*time.Millisecond)

	idp.emit(nil)
	snap := r.Snapshot()
	assert.False(t, snap.IsAdmin, "sin identidad, no admin, resuelto inmediato")
	assert.False(t, snap.Loading)
}

func TestHasAdminGrant(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	ok, err := roles.HasAdminGrant(ctx, store, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "sin grant es no-admin, no error")

	grantAdmin(t, store, "u1")
	ok, err = roles.HasAdminGrant(ctx, store, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHasAdminGrantMalformedRecord(t *testing.T) {
	store := memory.New()
	// Registro sin user_id: malformado, jamás otorga admin.
	_, err := store.Insert(context.Background(), domain.CollectionUserRoles, tablestore.Record{
		"role": domain.RoleAdmin,
	})
	require.NoError(t, err)

	// SelectOne matchea por user_id, que falta: not found → no admin.
	ok, err := roles.HasAdminGrant(context.Background(), store, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}
