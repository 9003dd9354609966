package resources

import (
	"time"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// DonationResponse es la representación pública de una campaña de donación.
type DonationResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	TargetAmount    int64     `json:"target_amount"`
	CollectedAmount int64     `json:"collected_amount"`
	ImageURL        string    `json:"image_url,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DonationFromDomain convierte la entidad al DTO de respuesta.
func DonationFromDomain(d domain.Donation) DonationResponse {
	return DonationResponse{
		ID:              d.ID,
		Title:           d.Title,
		Description:     d.Description,
		TargetAmount:    d.TargetAmount,
		CollectedAmount: d.CollectedAmount,
		ImageURL:        d.ImageURL,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// DonationsFromDomain convierte un slice de entidades.
func DonationsFromDomain(items []domain.Donation) []DonationResponse {
	out := make([]DonationResponse, len(items))
	for i, d := range items {
		out[i] = DonationFromDomain(d)
	}
	return out
}

// CreateDonationRequest es el payload para crear una campaña.
type CreateDonationRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TargetAmount int64  `json:"target_amount"`
	ImageURL     string `json:"image_url"`
	IsActive     *bool  `json:"is_active"`
}

// Record convierte el request en un registro de inserción.
// Las campañas nuevas arrancan activas salvo que se indique lo contrario.
func (r CreateDonationRequest) Record() tablestore.Record {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return tablestore.Record{
		"title":         r.Title,
		"description":   r.Description,
		"target_amount": r.TargetAmount,
		"image_url":     r.ImageURL,
		"is_active":     active,
	}
}

// UpdateDonationRequest es el patch parcial de una campaña.
type UpdateDonationRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	TargetAmount    *int64  `json:"target_amount"`
	CollectedAmount *int64  `json:"collected_amount"`
	ImageURL        *string `json:"image_url"`
	IsActive        *bool   `json:"is_active"`
}

// Record convierte el patch en un registro con solo los campos presentes.
func (r UpdateDonationRequest) Record() tablestore.Record {
	patch := tablestore.Record{}
	if r.Title != nil {
		patch["title"] = *r.Title
	}
	if r.Description != nil {
		patch["description"] = *r.Description
	}
	if r.TargetAmount != nil {
		patch["target_amount"] = *r.TargetAmount
	}
	if r.CollectedAmount != nil {
		patch["collected_amount"] = *r.CollectedAmount
	}
	if r.ImageURL != nil {
		patch["image_url"] = *r.ImageURL
	}
	if r.IsActive != nil {
		patch["is_active"] = *r.IsActive
	}
	return patch
}
