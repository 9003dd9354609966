// Package identity define el contrato del identity provider externo.
// La autenticación se delega entera a este colaborador: el resto de la app
// solo observa la sesión vigente a través del session provider.
package identity

import (
	"context"
	"errors"

	"github.com/nusarupa/nusarupa/internal/domain"
)

// Provider es el contrato del identity provider.
type Provider interface {
	// CurrentSession devuelve la sesión vigente o (nil, nil) si no hay.
	CurrentSession(ctx context.Context) (*domain.Session, error)

	// OnSessionChange registra un callback invocado en cada cambio de sesión
	// (login, refresh, logout). Devuelve la función de desuscripción.
	OnSessionChange(fn func(*domain.Session)) (unsubscribe func())

	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password, displayName string) (*domain.Session, error)

	// SignOut es best-effort del lado remoto; el provider local de sesión
	// limpia su estado aunque esto falle.
	SignOut(ctx context.Context) error

	// UpdateCurrentUser aplica un patch al metadata del usuario actual.
	UpdateCurrentUser(ctx context.Context, patch map[string]any) error
}

// TokenVerifier valida un access token y devuelve la identidad que porta.
// Lo consume el middleware HTTP; no forma parte del contrato mínimo.
type TokenVerifier interface {
	VerifyToken(token string) (userID, email string, err error)
}

// Errores distinguibles del provider. Los mensajes calcan los indicadores
// que la UI ya reconoce.
var (
	ErrInvalidCredentials = errors.New("Invalid login credentials")
	ErrEmailTaken         = errors.New("User already registered")
	ErrNoSession          = errors.New("no active session")
)
