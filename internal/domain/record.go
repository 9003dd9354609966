package domain

import (
	"fmt"
	"time"
)

// Los registros del table store llegan como map[string]any. Cada entidad se
// valida acá, en la frontera: un registro con campos faltantes o de tipo
// incorrecto nunca entra al estado de la aplicación.

type fieldError struct {
	Collection string
	Field      string
	Reason     string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: campo %q %s", e.Collection, e.Field, e.Reason)
}

// reader acumula el primer error de decodificación.
type reader struct {
	collection string
	rec        map[string]any
	err        error
}

func (r *reader) fail(field, reason string) {
	if r.err == nil {
		r.err = &fieldError{Collection: r.collection, Field: field, Reason: reason}
	}
}

func (r *reader) str(field string, required bool) string {
	v, ok := r.rec[field]
	if !ok || v == nil {
		if required {
			r.fail(field, "faltante")
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(field, "no es string")
		return ""
	}
	if required && s == "" {
		r.fail(field, "vacío")
	}
	return s
}

func (r *reader) integer(field string) int64 {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return 0
	}
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	default:
		r.fail(field, "no es numérico")
		return 0
	}
}

func (r *reader) boolean(field string) bool {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(field, "no es bool")
		return false
	}
	return b
}

func (r *reader) timestamp(field string) time.Time {
	v, ok := r.rec[field]
	if !ok || v == nil {
		return time.Time{}
	}
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed
		}
		r.fail(field, "timestamp inválido")
		return time.Time{}
	default:
		r.fail(field, "no es timestamp")
		return time.Time{}
	}
}

// ArtworkFromRecord valida y decodifica un registro de "artworks".
func ArtworkFromRecord(rec map[string]any) (Artwork, error) {
	r := &reader{collection: CollectionArtworks, rec: rec}
	a := Artwork{
		ID:          r.str("id", true),
		Title:       r.str("title", true),
		Author:      r.str("author", true),
		Description: r.str("description", false),
		ImageURL:    r.str("image_url", false),
		Category:    r.str("category", true),
		Likes:       int(r.integer("likes")),
		Views:       int(r.integer("views")),
		CreatedAt:   r.timestamp("created_at"),
		UpdatedAt:   r.timestamp("updated_at"),
	}
	return a, r.err
}

// ActivityFromRecord valida y decodifica un registro de "activities".
func ActivityFromRecord(rec map[string]any) (Activity, error) {
	r := &reader{collection: CollectionActivities, rec: rec}
	a := Activity{
		ID:           r.str("id", true),
		Title:        r.str("title", true),
		Description:  r.str("description", false),
		Date:         r.str("date", true),
		Time:         r.str("time", true),
		Location:     r.str("location", true),
		ImageURL:     r.str("image_url", false),
		Participants: int(r.integer("participants")),
		CreatedAt:    r.timestamp("created_at"),
		UpdatedAt:    r.timestamp("updated_at"),
	}
	return a, r.err
}

// DonationFromRecord valida y decodifica un registro de "donations".
func DonationFromRecord(rec map[string]any) (Donation, error) {
	r := &reader{collection: CollectionDonations, rec: rec}
	d := Donation{
		ID:              r.str("id", true),
		Title:           r.str("title", true),
		Description:     r.str("description", false),
		TargetAmount:    r.integer("target_amount"),
		CollectedAmount: r.integer("collected_amount"),
		ImageURL:        r.str("image_url", false),
		IsActive:        r.boolean("is_active"),
		CreatedAt:       r.timestamp("created_at"),
		UpdatedAt:       r.timestamp("updated_at"),
	}
	if d.CollectedAmount < 0 {
		return d, &fieldError{Collection: CollectionDonations, Field: "collected_amount", Reason: "negativo"}
	}
	return d, r.err
}

// ProfileFromRecord valida y decodifica un registro de "profiles".
func ProfileFromRecord(rec map[string]any) (Profile, error) {
	r := &reader{collection: CollectionProfiles, rec: rec}
	p := Profile{
		ID:        r.str("id", true),
		UserID:    r.str("user_id", true),
		FullName:  r.str("full_name", false),
		Bio:       r.str("bio", false),
		AvatarURL: r.str("avatar_url", false),
		Role:      r.str("role", false),
		CreatedAt: r.timestamp("created_at"),
		UpdatedAt: r.timestamp("updated_at"),
	}
	return p, r.err
}

// RoleGrantFromRecord valida y decodifica un registro de "user_roles".
func RoleGrantFromRecord(rec map[string]any) (RoleGrant, error) {
	r := &reader{collection: CollectionUserRoles, rec: rec}
	g := RoleGrant{
		ID:        r.str("id", true),
		UserID:    r.str("user_id", true),
		Role:      r.str("role", true),
		CreatedAt: r.timestamp("created_at"),
	}
	return g, r.err
}
