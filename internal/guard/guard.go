// Package guard implementa las dos decisiones de acceso a nivel de ruta.
// Son funciones puras sobre snapshots de sesión y de roles: se re-evalúan
// en cada cambio y nunca permiten contenido protegido mientras "checking".
package guard

import (
	"github.com/nusarupa/nusarupa/internal/roles"
	"github.com/nusarupa/nusarupa/internal/session"
)

// State es el estado de la máquina de decisión.
type State int

const (
	// StateChecking: identidad/rol aún desconocidos. Mostrar indicador
	// neutral, jamás el contenido protegido.
	StateChecking State = iota
	StateAllowed
	// StateDenied: guard de autenticación, sin identidad.
	StateDenied
	// StateDeniedUnauthenticated: guard de admin, sin identidad.
	StateDeniedUnauthenticated
	// StateDeniedNotAdmin: hay identidad pero sin grant de admin. Redirige
	// al área autenticada general, no al login de admin: un no-admin no
	// debe poder distinguir "no existe" de "no autorizado".
	StateDeniedNotAdmin
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAllowed:
		return "allowed"
	case StateDenied:
		return "denied"
	case StateDeniedUnauthenticated:
		return "denied-unauthenticated"
	case StateDeniedNotAdmin:
		return "denied-not-admin"
	default:
		return "unknown"
	}
}

// Destinos de redirección.
const (
	PathSignIn     = "/auth"
	PathAdminLogin = "/admin/login"
	PathHome       = "/home"
)

// Decision es el resultado de evaluar un guard.
type Decision struct {
	State      State
	RedirectTo string // "" salvo en estados denied*
}

// Authenticated decide el acceso a rutas que requieren identidad.
func Authenticated(sess session.Snapshot) Decision {
	switch {
	case sess.Loading:
		return Decision{State: StateChecking}
	case sess.Session == nil:
		return Decision{State: StateDenied, RedirectTo: PathSignIn}
	default:
		return Decision{State: StateAllowed}
	}
}

// Admin decide el acceso a rutas que requieren identidad Y grant de admin.
// roles.Snapshot con Loading=true cuenta como "desconocido": checking.
func Admin(sess session.Snapshot, role roles.Snapshot) Decision {
	switch {
	case sess.Loading || role.Loading:
		return Decision{State: StateChecking}
	case sess.Session == nil:
		return Decision{State: StateDeniedUnauthenticated, RedirectTo: PathAdminLogin}
	case !role.IsAdmin:
		return Decision{State: StateDeniedNotAdmin, RedirectTo: PathHome}
	default:
		return Decision{State: StateAllowed}
	}
}
