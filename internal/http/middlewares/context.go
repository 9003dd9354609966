package middlewares

import (
	"context"

	"github.com/nusarupa/nusarupa/internal/domain"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxSessionKey guarda la sesión resuelta del token
	ctxSessionKey ctxKey = "session"
	// ctxUserIDKey guarda el user ID extraído del token
	ctxUserIDKey ctxKey = "user_id"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// CONTEXT SETTERS (internos, usados por middlewares)
// =================================================================================

// WithSession inyecta la sesión en el contexto
func WithSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey, sess)
}

// WithUserID inyecta el user ID en el contexto
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS (públicos, usados por controllers)
// =================================================================================

// GetSession obtiene la sesión del contexto.
// Retorna nil si no hay sesión (token no validado o middleware no aplicado).
func GetSession(ctx context.Context) *domain.Session {
	if v := ctx.Value(ctxSessionKey); v != nil {
		if s, ok := v.(*domain.Session); ok {
			return s
		}
	}
	return nil
}

// GetUserID obtiene el user ID del contexto.
// Retorna cadena vacía si no hay user ID.
func GetUserID(ctx context.Context) string {
	if v := ctx.Value(ctxUserIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
