// Package resources contiene DTOs para las colecciones públicas
// (artworks, activities, donations) y sus operaciones de administración.
package resources

import (
	"time"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// ArtworkResponse es la representación pública de una obra.
type ArtworkResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	Category    string    `json:"category,omitempty"`
	Likes       int       `json:"likes"`
	Views       int       `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArtworkFromDomain convierte la entidad al DTO de respuesta.
func ArtworkFromDomain(a domain.Artwork) ArtworkResponse {
	return ArtworkResponse{
		ID:          a.ID,
		Title:       a.Title,
		Author:      a.Author,
		Description: a.Description,
		ImageURL:    a.ImageURL,
		Category:    a.Category,
		Likes:       a.Likes,
		Views:       a.Views,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

// ArtworksFromDomain convierte un slice de entidades.
func ArtworksFromDomain(items []domain.Artwork) []ArtworkResponse {
	out := make([]ArtworkResponse, len(items))
	for i, a := range items {
		out[i] = ArtworkFromDomain(a)
	}
	return out
}

// CreateArtworkRequest es el payload para crear una obra.
type CreateArtworkRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Category    string `json:"category"`
}

// Record convierte el request en un registro de inserción.
func (r CreateArtworkRequest) Record() tablestore.Record {
	return tablestore.Record{
		"title":       r.Title,
		"author":      r.Author,
		"description": r.Description,
		"image_url":   r.ImageURL,
		"category":    r.Category,
	}
}

// UpdateArtworkRequest es el patch parcial de una obra.
// Solo los campos presentes en el JSON se aplican.
type UpdateArtworkRequest struct {
	Title       *string `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
	Category    *string `json:"category"`
	Likes       *int    `json:"likes"`
	Views       *int    `json:"views"`
}

// Record convierte el patch en un registro con solo los campos presentes.
func (r UpdateArtworkRequest) Record() tablestore.Record {
	patch := tablestore.Record{}
	if r.Title != nil {
		patch["title"] = *r.Title
	}
	if r.Author != nil {
		patch["author"] = *r.Author
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.ImageURL != nil {
		patch["image_url"] = *r.ImageURL
	}
	if r.Category != nil {
		patch["category"] = *r.Category
	}
	if r.Likes != nil {
		patch["likes"] = *r.Likes
	}
	if r.Views != nil {
		patch["views"] = *r.Views
	}
	return patch
}
