package resources

import (
	"time"

	"github.com/nusarupa/nusarupa/internal/domain"
)

// ProfileResponse es la representación pública de un perfil.
type ProfileResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileFromDomain convierte la entidad al DTO de respuesta.
func ProfileFromDomain(p domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		FullName:  p.FullName,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		Role:      p.Role,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ProfilesFromDomain convierte un slice de entidades.
func ProfilesFromDomain(items []domain.Profile) []ProfileResponse {
	out := make([]ProfileResponse, len(items))
	for i, p := range items {
		out[i] = ProfileFromDomain(p)
	}
	return out
}

// UploadResponse es la respuesta de una subida de imagen.
type UploadResponse struct {
	URL string `json:"url"`
}
