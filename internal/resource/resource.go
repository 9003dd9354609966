// Package resource implementa los hooks de recursos: fachada CRUD sobre una
// colección remota con lista local optimista (Hook), y los readers públicos
// de solo lectura (Reader).
package resource

import (
	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Messages son los textos de cara al usuario por colección. Los fallos del
// store se notifican con el mensaje del error si trae uno; si no, con el
// fallback genérico del recurso.
type Messages struct {
	LoadFailed   string
	SearchFailed string
	NotFound     string

	CreateOK     string
	CreateFailed string
	UpdateOK     string
	UpdateFailed string
	DeleteOK     string
	DeleteFailed string
	UploadFailed string
}

// Collection describe cómo un hook/reader opera sobre una colección:
// orden por defecto, campos de búsqueda, decodificación validada.
type Collection[T any] struct {
	Name          string
	Order         tablestore.Order
	SearchFields  []string
	CategoryField string // "" si la colección no tiene categorías
	Decode        func(tablestore.Record) (T, error)
	ID            func(T) string
	Messages      Messages
}

// Artworks es el descriptor de la galería: newest-first por created_at.
func Artworks() Collection[domain.Artwork] {
	return Collection[domain.Artwork]{
		Name:          domain.CollectionArtworks,
		Order:         tablestore.Order{Field: "created_at", Ascending: false},
		SearchFields:  []string{"title", "author", "description"},
		CategoryField: "category",
		Decode:        domain.ArtworkFromRecord,
		ID:            func(a domain.Artwork) string { return a.ID },
		Messages: Messages{
			LoadFailed:   "Gagal memuat data karya",
			SearchFailed: "Gagal mencari karya",
			NotFound:     "Karya tidak ditemukan",
			CreateOK:     "Karya berhasil ditambahkan",
			CreateFailed: "Gagal menambahkan karya",
			UpdateOK:     "Karya berhasil diperbarui",
			UpdateFailed: "Gagal memperbarui karya",
			DeleteOK:     "Karya berhasil dihapus",
			DeleteFailed: "Gagal menghapus karya",
			UploadFailed: "Gagal mengupload gambar",
		},
	}
}

// Activities ordena soonest-first por date (ISO, comparable como string).
func Activities() Collection[domain.Activity] {
	return Collection[domain.Activity]{
		Name:         domain.CollectionActivities,
		Order:        tablestore.Order{Field: "date", Ascending: true},
		SearchFields: []string{"title", "description", "location"},
		Decode:       domain.ActivityFromRecord,
		ID:           func(a domain.Activity) string { return a.ID },
		Messages: Messages{
			LoadFailed:   "Gagal memuat data aktivitas",
			SearchFailed: "Gagal mencari aktivitas",
			NotFound:     "Aktivitas tidak ditemukan",
			CreateOK:     "Aktivitas berhasil ditambahkan",
			CreateFailed: "Gagal menambahkan aktivitas",
			UpdateOK:     "Aktivitas berhasil diperbarui",
			UpdateFailed: "Gagal memperbarui aktivitas",
			DeleteOK:     "Aktivitas berhasil dihapus",
			DeleteFailed: "Gagal menghapus aktivitas",
			UploadFailed: "Gagal mengupload gambar",
		},
	}
}

// Donations ordena newest-first por created_at.
func Donations() Collection[domain.Donation] {
	return Collection[domain.Donation]{
		Name:         domain.CollectionDonations,
		Order:        tablestore.Order{Field: "created_at", Ascending: false},
		SearchFields: []string{"title", "description"},
		Decode:       domain.DonationFromRecord,
		ID:           func(d domain.Donation) string { return d.ID },
		Messages: Messages{
			LoadFailed:   "Gagal memuat data donasi",
			SearchFailed: "Gagal mencari donasi",
			NotFound:     "Donasi tidak ditemukan",
			CreateOK:     "Donasi berhasil ditambahkan",
			CreateFailed: "Gagal menambahkan donasi",
			UpdateOK:     "Donasi berhasil diperbarui",
			UpdateFailed: "Gagal memperbarui donasi",
			DeleteOK:     "Donasi berhasil dihapus",
			DeleteFailed: "Gagal menghapus donasi",
			UploadFailed: "Gagal mengupload gambar",
		},
	}
}

// decodeAll valida una página completa de registros.
func decodeAll[T any](col Collection[T], recs []tablestore.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, rec := range recs {
		item, err := col.Decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
