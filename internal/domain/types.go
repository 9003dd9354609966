// Package domain define las entidades de la plataforma y su decodificación
// desde registros crudos del table store.
package domain

import "time"

// Nombres de colecciones del table store.
const (
	CollectionArtworks   = "artworks"
	CollectionActivities = "activities"
	CollectionDonations  = "donations"
	CollectionProfiles   = "profiles"
	CollectionUserRoles  = "user_roles"
	CollectionUsers      = "users"
)

// Roles conocidos (enum app_role).
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

// CategoryAll es el sentinel de "sin filtro de categoría".
// La UI histórica usa "semua"; se acepta también "all".
const (
	CategoryAll   = "semua"
	CategoryAllEN = "all"
)

// Session es la identidad actual observada por el cliente.
// Propiedad exclusiva del session provider; el resto solo lee.
type Session struct {
	IdentityID string
	Email      string
	Metadata   map[string]any
}

// RoleGrant asocia una identidad con un rol con nombre.
// Solo-lectura desde el cliente: los grants se provisionan fuera de banda.
type RoleGrant struct {
	ID        string
	UserID    string
	Role      string
	CreatedAt time.Time
}

// Artwork es una obra de la galería.
type Artwork struct {
	ID          string
	Title       string
	Author      string
	Description string
	ImageURL    string
	Category    string
	Likes       int
	Views       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Activity es un evento/actividad con registro de participantes.
// Date usa formato ISO "2006-01-02" y Time "15:04"; comparar fechas como
// strings ISO es válido lexicográficamente.
type Activity struct {
	ID           string
	Title        string
	Description  string
	Date         string
	Time         string
	Location     string
	ImageURL     string
	Participants int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Donation es una campaña de donación.
// El progreso (collected/target) es presentacional, no se recorta server-side.
type Donation struct {
	ID              string
	Title           string
	Description     string
	TargetAmount    int64
	CollectedAmount int64
	ImageURL        string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile es el perfil público de un usuario.
type Profile struct {
	ID        string
	UserID    string
	FullName  string
	Bio       string
	AvatarURL string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
