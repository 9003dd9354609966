package middlewares

import (
	"net/http"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/guard"
	httperrors "github.com/nusarupa/nusarupa/internal/http/errors"
	"github.com/nusarupa/nusarupa/internal/observability/logger"
	"github.com/nusarupa/nusarupa/internal/roles"
	"github.com/nusarupa/nusarupa/internal/session"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// =================================================================================
// ADMIN MIDDLEWARES
// =================================================================================

// RequireAdmin valida que el usuario autenticado tenga el grant de admin.
// Debe usarse después de RequireAuth.
//
// La resolución falla cerrada: si el lookup del grant falla, el request se
// trata como sin grant y el error solo se loguea. La decisión final la toma
// guard.Admin, que también fija el destino del 302 para navegación.
func RequireAdmin(store tablestore.Store) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())

			// RequireAuth deja la sesión y el userID en el contexto. El
			// userID manda: sin él no hay identidad para el guard.
			var sess *domain.Session
			isAdmin := false
			if userID != "" {
				if sess = GetSession(r.Context()); sess == nil {
					sess = &domain.Session{IdentityID: userID}
				}
				var err error
				isAdmin, err = roles.HasAdminGrant(r.Context(), store, userID)
				if err != nil {
					logger.From(r.Context()).Error("admin grant lookup failed",
						logger.Component("middlewares"),
						logger.UserID(userID),
						logger.Err(err),
					)
					isAdmin = false
				}
			}

			d := guard.Admin(
				session.Snapshot{Session: sess},
				roles.Snapshot{IsAdmin: isAdmin},
			)
			switch d.State {
			case guard.StateAllowed:
				next.ServeHTTP(w, r)
			case guard.StateDeniedUnauthenticated:
				denyDecision(w, r, d, httperrors.ErrUnauthorized)
			default:
				denyDecision(w, r, d, httperrors.ErrForbidden)
			}
		})
	}
}
