package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nusarupa/nusarupa/internal/validation"
)

func TestCredentials(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		want     map[string]string
	}{
		{name: "valid", email: "ani@example.com", password: "secret1", want: nil},
		{name: "invalid email", email: "not-an-email", password: "secret1", want: map[string]string{"email": "Email tidak valid"}},
		{name: "short password", email: "ani@example.com", password: "abc", want: map[string]string{"password": "Password minimal 6 karakter"}},
		{name: "both invalid", email: "", password: "", want: map[string]string{
			"email":    "Email tidak valid",
			"password": "Password minimal 6 karakter",
		}},
		{name: "email with surrounding spaces", email: "  ani@example.com  ", password: "secret1", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := validation.Credentials(tt.email, tt.password)
			if tt.want == nil {
				assert.True(t, got.OK())
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, validation.Errors(tt.want), got)
		})
	}
}

func TestRegistration(t *testing.T) {
	assert.Nil(t, validation.Registration("budi@example.com", "secret1", "Budi"))

	errs := validation.Registration("budi@example.com", "secret1", " B ")
	assert.Equal(t, "Nama minimal 2 karakter", errs["name"])

	// Los errores de credenciales se acumulan con el de nombre.
	errs = validation.Registration("x", "abc", "")
	assert.Len(t, errs, 3)
}

func TestArtwork(t *testing.T) {
	assert.Nil(t, validation.Artwork("Senja", "Rina", "lukisan"))

	errs := validation.Artwork("", "  ", "lukisan")
	assert.Equal(t, "Judul wajib diisi", errs["title"])
	assert.Equal(t, "Nama seniman wajib diisi", errs["author"])
	assert.NotContains(t, errs, "category")
}

func TestActivity(t *testing.T) {
	assert.Nil(t, validation.Activity("Kelas", "2026-09-12", "09:00", "Balai"))

	errs := validation.Activity("Kelas", "12/09/2026", "9am", "Balai")
	assert.Equal(t, "Tanggal harus berformat YYYY-MM-DD", errs["date"])
	assert.Equal(t, "Waktu harus berformat HH:MM", errs["time"])
}

func TestDonation(t *testing.T) {
	assert.Nil(t, validation.Donation("Renovasi", 1000, 0))

	errs := validation.Donation("", 0, -1)
	assert.Equal(t, "Judul wajib diisi", errs["title"])
	assert.Equal(t, "Target donasi harus lebih dari 0", errs["target_amount"])
	assert.Equal(t, "Jumlah terkumpul tidak boleh negatif", errs["collected_amount"])
}

func TestErrorsError(t *testing.T) {
	assert.Equal(t, "", validation.Errors{}.Error())

	errs := validation.Errors{"b": "dua", "a": "satu"}
	// Ordenado por campo, estable.
	assert.Equal(t, "a: satu; b: dua", errs.Error())
}
