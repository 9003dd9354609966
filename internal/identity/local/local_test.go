package local_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/cache"
	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/identity"
	"github.com/nusarupa/nusarupa/internal/identity/local"
	"github.com/nusarupa/nusarupa/internal/tablestore"
	"github.com/nusarupa/nusarupa/internal/tablestore/memory"
)

func newProvider(t *testing.T) (*local.Provider, tablestore.Store) {
	t.Helper()
	store := memory.New()
	p, err := local.New(store, cache.NewMemory("", time.Minute), local.Config{
		Secret:     "cukup-panjang-untuk-test",
		Issuer:     "nusarupa-test",
		SessionTTL: time.Hour,
	})
	require.NoError(t, err)
	return p, store
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := local.New(memory.New(), cache.NewMemory("", time.Minute), local.Config{})
	assert.Error(t, err)
}

func TestRegisterThenSignIn(t *testing.T) {
	p, store := newProvider(t)
	ctx := context.Background()

	sess, token, err := p.Register(ctx, "Budi@Example.com", "rahasia123", "Budi")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "budi@example.com", sess.Email, "email normalizado")
	assert.Equal(t, "Budi", sess.Metadata["display_name"])

	// El registro crea el perfil inicial.
	profile, err := store.SelectOne(ctx, domain.CollectionProfiles,
		tablestore.Eq("user_id", sess.IdentityID))
	require.NoError(t, err)
	assert.Equal(t, "Budi", profile["full_name"])

	got, token2, err := p.Authenticate(ctx, "budi@example.com", "rahasia123")
	require.NoError(t, err)
	assert.Equal(t, sess.IdentityID, got.IdentityID)
	assert.NotEqual(t, token, token2, "cada login emite su propio token")
}

func TestAuthenticateWrongPassword(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	_, _, err := p.Register(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	_, _, err = p.Authenticate(ctx, "budi@example.com", "salah")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	p, _ := newProvider(t)
	_, _, err := p.Authenticate(context.Background(), "nadie@example.com", "x")
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	_, _, err := p.Register(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	_, _, err = p.Register(ctx, "BUDI@example.com", "otra456", "Budi Dos")
	assert.ErrorIs(t, err, identity.ErrEmailTaken)
}

func TestSessionFromToken(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	sess, token, err := p.Register(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	got, err := p.SessionFromToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, sess.IdentityID, got.IdentityID)
	assert.Equal(t, "budi@example.com", got.Email)
}

func TestRevokeInvalidatesToken(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	_, token, err := p.Register(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	require.NoError(t, p.Revoke(ctx, token))

	_, err = p.SessionFromToken(ctx, token)
	assert.Error(t, err, "token revocado no resuelve sesión")
}

func TestSessionFromGarbageToken(t *testing.T) {
	p, _ := newProvider(t)
	_, err := p.SessionFromToken(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, identity.ErrNoSession)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	_, token, err := p.Register(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	other, err := local.New(memory.New(), cache.NewMemory("", time.Minute), local.Config{
		Secret: "otro-secreto",
		Issuer: "nusarupa-test",
	})
	require.NoError(t, err)

	_, _, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, identity.ErrNoSession)
}

func TestCurrentSessionLifecycle(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	got, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "sin login no hay sesión")

	sess, err := p.SignUp(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	got, err = p.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.IdentityID, got.IdentityID)

	require.NoError(t, p.SignOut(ctx))
	got, err = p.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCurrentSessionRestoredFromCache(t *testing.T) {
	store := memory.New()
	c := cache.NewMemory("", time.Minute)
	cfg := local.Config{Secret: "cukup-panjang-untuk-test", Issuer: "nusarupa-test", SessionTTL: time.Hour}

	p1, err := local.New(store, c, cfg)
	require.NoError(t, err)
	sess, err := p1.SignUp(context.Background(), "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	// Proceso nuevo sobre el mismo cache: la sesión vigente se restaura.
	p2, err := local.New(store, c, cfg)
	require.NoError(t, err)
	got, err := p2.CurrentSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, sess.IdentityID, got.IdentityID)
}

func TestUpdateCurrentUserMergesMetadata(t *testing.T) {
	p, store := newProvider(t)
	ctx := context.Background()

	sess, err := p.SignUp(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	var emitted *domain.Session
	unsub := p.OnSessionChange(func(s *domain.Session) { emitted = s })
	defer unsub()

	require.NoError(t, p.UpdateCurrentUser(ctx, map[string]any{
		"display_name": "Budi Santoso",
		"bio":          "pelukis",
	}))

	got, err := p.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", got.Metadata["display_name"])
	assert.Equal(t, "pelukis", got.Metadata["bio"])

	rec, err := store.SelectOne(ctx, domain.CollectionUsers, tablestore.Eq("id", sess.IdentityID))
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", rec["display_name"])

	// El perfil refleja el cambio.
	profile, err := store.SelectOne(ctx, domain.CollectionProfiles,
		tablestore.Eq("user_id", sess.IdentityID))
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", profile["full_name"])
	assert.Equal(t, "pelukis", profile["bio"])

	require.NotNil(t, emitted)
	assert.Equal(t, "pelukis", emitted.Metadata["bio"])
}

func TestUpdateCurrentUserWithoutSession(t *testing.T) {
	p, _ := newProvider(t)
	err := p.UpdateCurrentUser(context.Background(), map[string]any{"bio": "x"})
	assert.ErrorIs(t, err, identity.ErrNoSession)
}

func TestUpdateUserMetadataStateless(t *testing.T) {
	p, _ := newProvider(t)
	ctx := context.Background()

	sess, _, err := p.Register(ctx, "budi@example.com", "rahasia123", "Budi")
	require.NoError(t, err)

	got, err := p.UpdateUserMetadata(ctx, sess.IdentityID, map[string]any{"bio": "pelukis"})
	require.NoError(t, err)
	assert.Equal(t, "pelukis", got.Metadata["bio"])
	assert.Equal(t, "Budi", got.Metadata["display_name"], "lo existente se preserva")

	_, err = p.UpdateUserMetadata(ctx, "no-existe", map[string]any{"bio": "x"})
	assert.ErrorIs(t, err, identity.ErrNoSession)
}
