// Package auth contiene los controllers de autenticación.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nusarupa/nusarupa/internal/domain"
	dto "github.com/nusarupa/nusarupa/internal/http/dto/auth"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/http/helpers"
	"github.com/nusarupa/nusarupa/internal/http/middlewares"
	"github.com/nusarupa/nusarupa/internal/identity"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/validation"
)

// IdentityService es la porción stateless del identity provider que usa la
// capa HTTP: cada request porta su propio token.
type IdentityService interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Session, string, error)
	Register(ctx context.Context, email, password, displayName string) (*domain.Session, string, error)
	Revoke(ctx context.Context, token string) error
	UpdateUserMetadata(ctx context.Context, userID string, patch map[string]any) (*domain.Session, error)
}

// Controller maneja login, registro, logout y perfil propio.
type Controller struct {
	svc IdentityService
}

// NewController crea el controller de auth.
func NewController(svc IdentityService) *Controller {
	return &Controller{svc: svc}
}

// Login maneja POST /v1/auth/login.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Login"))

	var req dto.LoginRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if errs := validation.Credentials(req.Email, req.Password); !errs.OK() {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(errs.Error()))
		return
	}

	sess, token, err := c.svc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
			return
		}
		log.Error("login failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, sessionResponse(sess, token))
}

// Register maneja POST /v1/auth/register.
func (c *Controller) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.Register"))

	var req dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}

	if errs := validation.Registration(req.Email, req.Password, req.DisplayName); !errs.OK() {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail(errs.Error()))
		return
	}

	sess, token, err := c.svc.Register(ctx, req.Email, req.Password, req.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrEmailTaken):
			httperrors.WriteError(w, httperrors.ErrEmailAlreadyInUse)
		case errors.Is(err, identity.ErrInvalidCredentials):
			httperrors.WriteError(w, httperrors.ErrValidation)
		default:
			log.Error("register failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, sessionResponse(sess, token))
}

// Logout maneja POST /v1/auth/logout. Requiere RequireAuth.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	token := ""
	if strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		token = strings.TrimSpace(ah[len("Bearer "):])
	}

	if token != "" {
		if err := c.svc.Revoke(ctx, token); err != nil {
			logger.From(ctx).Warn("token revoke failed", logger.Err(err))
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me maneja GET /v1/me. Requiere RequireAuth.
func (c *Controller) Me(w http.ResponseWriter, r *http.Request) {
	sess := middlewares.GetSession(r.Context())
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{
		ID:       sess.IdentityID,
		Email:    sess.Email,
		Metadata: sess.Metadata,
	})
}

// UpdateMe maneja PATCH /v1/me. Requiere RequireAuth.
func (c *Controller) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("AuthController.UpdateMe"))

	userID := middlewares.GetUserID(ctx)
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateUserRequest
	if !helpers.ReadJSON(w, r, &req) {
		return
	}
	if len(req.Metadata) == 0 {
		httperrors.WriteError(w, httperrors.ErrValidation.WithDetail("metadata kosong"))
		return
	}

	sess, err := c.svc.UpdateUserMetadata(ctx, userID, req.Metadata)
	if err != nil {
		if errors.Is(err, identity.ErrNoSession) {
			httperrors.WriteError(w, httperrors.ErrUnauthorized)
			return
		}
		log.Error("metadata update failed", logger.UserID(userID), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.UserResponse{
		ID:       sess.IdentityID,
		Email:    sess.Email,
		Metadata: sess.Metadata,
	})
}

func sessionResponse(sess *domain.Session, token string) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		User: dto.UserResponse{
			ID:       sess.IdentityID,
			Email:    sess.Email,
			Metadata: sess.Metadata,
		},
	}
}
