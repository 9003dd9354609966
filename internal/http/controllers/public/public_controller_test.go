package public_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/http/controllers/public"
	"github.com/nusarupa/nusarupa/internal/tablestore"
	"github.com/nusarupa/nusarupa/internal/tablestore/memory"
)

func newRouter(t *testing.T) (chi.Router, *memory.Store) {
	t.Helper()
	store := memory.New()
	c := public.NewController(store)

	r := chi.NewRouter()
	r.Get("/v1/artworks", c.ListArtworks)
	r.Get("/v1/artworks/{id}", c.GetArtwork)
	r.Get("/v1/activities", c.ListActivities)
	r.Get("/v1/activities/{id}", c.GetActivity)
	r.Get("/v1/donations", c.ListDonations)
	r.Get("/v1/donations/{id}", c.GetDonation)
	return r, store
}

func seed(t *testing.T, store *memory.Store, collection string, rec tablestore.Record) tablestore.Record {
	t.Helper()
	out, err := store.Insert(context.Background(), collection, rec)
	require.NoError(t, err)
	return out
}

func get(t *testing.T, r chi.Router, path string) (*httptest.ResponseRecorder, []map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var list []map[string]any
	if rec.Code == http.StatusOK && len(rec.Body.Bytes()) > 0 && rec.Body.Bytes()[0] == '[' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	}
	return rec, list
}

func TestListArtworks(t *testing.T) {
	r, store := newRouter(t)
	seed(t, store, "artworks", tablestore.Record{
		"title": "Senja di Borobudur", "author": "Rina", "category": "lukisan",
		"created_at": time.Unix(100, 0),
	})
	seed(t, store, "artworks", tablestore.Record{
		"title": "Batik Mega Mendung", "author": "Studio Pesisir", "category": "kerajinan",
		"created_at": time.Unix(200, 0),
	})

	rec, list := get(t, r, "/v1/artworks")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 2)
	assert.Equal(t, "Batik Mega Mendung", list[0]["title"], "newest-first")

	rec, list = get(t, r, "/v1/artworks?category=lukisan")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, "Senja di Borobudur", list[0]["title"])

	rec, list = get(t, r, "/v1/artworks?category=semua")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list, 2, "categoría sentinel no filtra")

	rec, list = get(t, r, "/v1/artworks?q=batik")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, "Batik Mega Mendung", list[0]["title"])
}

func TestGetArtworkByID(t *testing.T) {
	r, store := newRouter(t)
	created := seed(t, store, "artworks", tablestore.Record{
		"title": "Wayang Kulit", "author": "Pak Darto", "category": "kerajinan",
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/artworks/"+created["id"].(string), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Wayang Kulit", body["title"])
}

func TestGetArtworkNotFound(t *testing.T) {
	r, _ := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/artworks/no-existe", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	// El mensaje visible es el del recurso, sin la causa técnica.
	assert.Equal(t, "Karya tidak ditemukan", body["message"])
}

func TestListActivitiesUpcoming(t *testing.T) {
	r, store := newRouter(t)
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	seed(t, store, "activities", tablestore.Record{
		"title": "Lokakarya Batik", "date": yesterday, "time": "10:00", "location": "Bandung",
	})
	seed(t, store, "activities", tablestore.Record{
		"title": "Pameran Seni", "date": tomorrow, "time": "09:00", "location": "Jakarta",
	})

	rec, list := get(t, r, "/v1/activities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list, 2)

	rec, list = get(t, r, "/v1/activities?upcoming=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, "Pameran Seni", list[0]["title"])
}

func TestListDonationsOnlyActive(t *testing.T) {
	r, store := newRouter(t)
	seed(t, store, "donations", tablestore.Record{
		"title": "Bantu Sanggar", "target_amount": int64(1000000), "is_active": true,
	})
	seed(t, store, "donations", tablestore.Record{
		"title": "Kampanye Lama", "target_amount": int64(500000), "is_active": false,
	})

	rec, list := get(t, r, "/v1/donations")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, list, 1)
	assert.Equal(t, "Bantu Sanggar", list[0]["title"])
}

func TestGetDonationNotFound(t *testing.T) {
	r, _ := newRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/donations/no-existe", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
