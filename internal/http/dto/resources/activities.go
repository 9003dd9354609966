package resources

import (
	"time"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// ActivityResponse es la representación pública de una actividad.
type ActivityResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Date         string    `json:"date"`
	Time         string    `json:"time,omitempty"`
	Location     string    `json:"location,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ActivityFromDomain convierte la entidad al DTO de respuesta.
func ActivityFromDomain(a domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:           a.ID,
		Title:        a.Title,
		Description:  a.Description,
		Date:         a.Date,
		Time:         a.Time,
		Location:     a.Location,
		ImageURL:     a.ImageURL,
		Participants: a.Participants,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// ActivitiesFromDomain convierte un slice de entidades.
func ActivitiesFromDomain(items []domain.Activity) []ActivityResponse {
	out := make([]ActivityResponse, len(items))
	for i, a := range items {
		out[i] = ActivityFromDomain(a)
	}
	return out
}

// CreateActivityRequest es el payload para crear una actividad.
type CreateActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"` // ISO "2006-01-02"
	Time        string `json:"time"` // "15:04"
	Location    string `json:"location"`
	ImageURL    string `json:"image_url"`
}

// Record convierte el request en un registro de inserción.
func (r CreateActivityRequest) Record() tablestore.Record {
	return tablestore.Record{
		"title":       r.Title,
		"description": r.Description,
		"date":        r.Date,
		"time":        r.Time,
		"location":    r.Location,
		"image_url":   r.ImageURL,
	}
}

// UpdateActivityRequest es el patch parcial de una actividad.
type UpdateActivityRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Date         *string `json:"date"`
	Time         *string `json:"time"`
	Location     *string `json:"location"`
	ImageURL     *string `json:"image_url"`
	Participants *int    `json:"participants"`
}

// Record convierte el patch en un registro con solo los campos presentes.
func (r UpdateActivityRequest) Record() tablestore.Record {
	patch := tablestore.Record{}
	if r.Title != nil {
		patch["title"] = *r.Title
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.Date != nil {
		patch["date"] = *r.Date
	}
	if r.Time != nil {
		patch["time"] = *r.Time
	}
	if r.Location != nil {
		patch["location"] = *r.Location
	}
	if r.ImageURL != nil {
		patch["image_url"] = *r.ImageURL
	}
	if r.Participants != nil {
		patch["participants"] = *r.Participants
	}
	return patch
}
