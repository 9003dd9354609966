package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/domain"
)

func validArtworkRecord() map[string]any {
	return map[string]any{
		"id":          "a1",
		"title":       "Senja di Borobudur",
		"author":      "Rina",
		"description": "cat minyak",
		"image_url":   "",
		"category":    "lukisan",
		"likes":       int64(3),
		"views":       float64(10), // los drivers JSON entregan float64
		"created_at":  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestArtworkFromRecord(t *testing.T) {
	a, err := domain.ArtworkFromRecord(validArtworkRecord())
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, 3, a.Likes)
	assert.Equal(t, 10, a.Views)
	assert.Equal(t, 2026, a.CreatedAt.Year())
}

func TestArtworkFromRecordMissingRequired(t *testing.T) {
	rec := validArtworkRecord()
	delete(rec, "title")
	_, err := domain.ArtworkFromRecord(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title")
}

func TestArtworkFromRecordWrongType(t *testing.T) {
	rec := validArtworkRecord()
	rec["likes"] = "tres"
	_, err := domain.ArtworkFromRecord(rec)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "likes")
}

func TestArtworkFromRecordTimestampString(t *testing.T) {
	rec := validArtworkRecord()
	rec["created_at"] = "2026-01-02T03:04:05Z"
	a, err := domain.ArtworkFromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, 2026, a.CreatedAt.Year())

	rec["created_at"] = "ayer"
	_, err = domain.ArtworkFromRecord(rec)
	assert.Error(t, err)
}

func TestActivityFromRecord(t *testing.T) {
	a, err := domain.ActivityFromRecord(map[string]any{
		"id":           "act1",
		"title":        "Kelas Melukis",
		"date":         "2026-09-12",
		"time":         "09:00",
		"location":     "Balai",
		"participants": 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-12", a.Date)
	assert.Equal(t, 7, a.Participants)
}

func TestDonationFromRecord(t *testing.T) {
	d, err := domain.DonationFromRecord(map[string]any{
		"id":               "d1",
		"title":            "Renovasi",
		"target_amount":    int64(50_000_000),
		"collected_amount": int64(1_000_000),
		"is_active":        true,
	})
	require.NoError(t, err)
	assert.True(t, d.IsActive)
	assert.EqualValues(t, 50_000_000, d.TargetAmount)
}

func TestDonationFromRecordNegativeCollected(t *testing.T) {
	_, err := domain.DonationFromRecord(map[string]any{
		"id":               "d1",
		"title":            "Renovasi",
		"target_amount":    int64(100),
		"collected_amount": int64(-5),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collected_amount")
}

func TestRoleGrantFromRecord(t *testing.T) {
	g, err := domain.RoleGrantFromRecord(map[string]any{
		"id":      "g1",
		"user_id": "u1",
		"role":    "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, g.Role)

	_, err = domain.RoleGrantFromRecord(map[string]any{"id": "g1", "user_id": "u1"})
	assert.Error(t, err)
}
