package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/guard"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/session"
)

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

// SessionResolver resuelve la sesión que porta un access token.
// Debe respetar revocación: un token firmado pero revocado no resuelve.
type SessionResolver interface {
	SessionFromToken(ctx context.Context, token string) (*domain.Session, error)
}

func bearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return ""
	}
	return strings.TrimSpace(ah[len("Bearer "):])
}

// wantsHTML reporta si el request es navegación de browser. Los fetch de la
// SPA y los clientes de API no mandan Accept: text/html.
func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

// denyDecision responde un guard.Decision denegado: 302 al destino del
// guard para navegación de browser, el error JSON de API para el resto.
func denyDecision(w http.ResponseWriter, r *http.Request, d guard.Decision, apiErr *httperrors.AppError) {
	if wantsHTML(r) && d.RedirectTo != "" {
		http.Redirect(w, r, d.RedirectTo, http.StatusFound)
		return
	}
	httperrors.WriteError(w, apiErr)
}

// RequireAuth valida Authorization: Bearer <token> y guarda la sesión en el
// contexto. La denegación sale de guard.Authenticated: navegación recibe
// 302 a su login, los clientes de API un 401 JSON.
func RequireAuth(resolver SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token", error_description="missing bearer token"`)
				denyDecision(w, r, guard.Authenticated(session.Snapshot{}), httperrors.ErrTokenMissing)
				return
			}

			sess, err := resolver.SessionFromToken(r.Context(), raw)
			if err != nil {
				sess = nil
			}

			if d := guard.Authenticated(session.Snapshot{Session: sess}); d.State != guard.StateAllowed {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				denyDecision(w, r, d, httperrors.ErrTokenInvalid)
				return
			}

			ctx := WithSession(r.Context(), sess)
			ctx = WithUserID(ctx, sess.IdentityID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth intenta resolver el token pero NO falla si no está presente.
// Útil para endpoints públicos con comportamiento extra para autenticados.
func OptionalAuth(resolver SessionResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := resolver.SessionFromToken(r.Context(), raw)
			if err != nil || sess == nil {
				// Token inválido pero opcional, continuar sin sesión
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithSession(r.Context(), sess)
			ctx = WithUserID(ctx, sess.IdentityID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
