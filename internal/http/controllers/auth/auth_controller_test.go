package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/http/controllers/auth"
	"github.com/nusarupa/nusarupa/internal/http/middlewares"
	"github.com/nusarupa/nusarupa/internal/identity"
)

// fakeIdentity programa las respuestas del servicio de identidad.
type fakeIdentity struct {
	session *domain.Session
	token   string
	err     error

	revoked []string
}

func (f *fakeIdentity) Authenticate(ctx context.Context, email, password string) (*domain.Session, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.session, f.token, nil
}

func (f *fakeIdentity) Register(ctx context.Context, email, password, displayName string) (*domain.Session, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	return f.session, f.token, nil
}

func (f *fakeIdentity) Revoke(ctx context.Context, token string) error {
	f.revoked = append(f.revoked, token)
	return f.err
}

func (f *fakeIdentity) UpdateUserMetadata(ctx context.Context, userID string, patch map[string]any) (*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func budi() *domain.Session {
	return &domain.Session{
		IdentityID: "u1",
		Email:      "budi@example.com",
		Metadata:   map[string]any{"display_name": "Budi"},
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginSuccess(t *testing.T) {
	c := auth.NewController(&fakeIdentity{session: budi(), token: "tok-123"})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"budi@example.com","password":"rahasia123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "tok-123", body["access_token"])
	assert.Equal(t, "Bearer", body["token_type"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "budi@example.com", user["email"])
}

func TestLoginInvalidCredentials(t *testing.T) {
	c := auth.NewController(&fakeIdentity{err: identity.ErrInvalidCredentials})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"budi@example.com","password":"salah123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, rec)["code"])
}

func TestLoginValidation(t *testing.T) {
	svc := &fakeIdentity{session: budi(), token: "tok"}
	c := auth.NewController(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"no-es-email","password":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])
	assert.NotEmpty(t, body["detail"], "el detalle lista los campos inválidos")
}

func TestLoginMalformedJSON(t *testing.T) {
	c := auth.NewController(&fakeIdentity{})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(`{nope`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterSuccess(t *testing.T) {
	c := auth.NewController(&fakeIdentity{session: budi(), token: "tok-reg"})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register",
		strings.NewReader(`{"email":"budi@example.com","password":"rahasia123","display_name":"Budi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "tok-reg", decodeBody(t, rec)["access_token"])
}

func TestRegisterEmailTaken(t *testing.T) {
	c := auth.NewController(&fakeIdentity{err: identity.ErrEmailTaken})

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register",
		strings.NewReader(`{"email":"budi@example.com","password":"rahasia123","display_name":"Budi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c.Register(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "EMAIL_ALREADY_IN_USE", decodeBody(t, rec)["code"])
}

func TestLogoutRevokesBearerToken(t *testing.T) {
	svc := &fakeIdentity{}
	c := auth.NewController(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok-xyz")
	rec := httptest.NewRecorder()
	c.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"tok-xyz"}, svc.revoked)
}

func TestLogoutWithoutTokenStillSucceeds(t *testing.T) {
	svc := &fakeIdentity{}
	c := auth.NewController(svc)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	c.Logout(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.revoked)
}

func TestMe(t *testing.T) {
	c := auth.NewController(&fakeIdentity{})

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req = req.WithContext(middlewares.WithSession(req.Context(), budi()))
	rec := httptest.NewRecorder()
	c.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "u1", body["id"])
	assert.Equal(t, "budi@example.com", body["email"])
}

func TestMeWithoutSession(t *testing.T) {
	c := auth.NewController(&fakeIdentity{})

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec := httptest.NewRecorder()
	c.Me(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMe(t *testing.T) {
	updated := budi()
	updated.Metadata["bio"] = "pelukis"
	c := auth.NewController(&fakeIdentity{session: updated})

	req := httptest.NewRequest(http.MethodPatch, "/v1/me",
		strings.NewReader(`{"metadata":{"bio":"pelukis"}}`))
	req.Header.Set("Content-Type", "application/json")
	ctx := middlewares.WithSession(req.Context(), budi())
	ctx = middlewares.WithUserID(ctx, "u1")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	meta := decodeBody(t, rec)["metadata"].(map[string]any)
	assert.Equal(t, "pelukis", meta["bio"])
}

func TestUpdateMeEmptyPatch(t *testing.T) {
	c := auth.NewController(&fakeIdentity{})

	req := httptest.NewRequest(http.MethodPatch, "/v1/me", strings.NewReader(`{"metadata":{}}`))
	req.Header.Set("Content-Type", "application/json")
	ctx := middlewares.WithSession(req.Context(), budi())
	ctx = middlewares.WithUserID(ctx, "u1")
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	c.UpdateMe(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
