package resource_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/notify"
	"github.com/nusarupa/nusarupa/internal/resource"
	"github.com/nusarupa/nusarupa/internal/tablestore"
	"github.com/nusarupa/nusarupa/internal/tablestore/memory"
)

// failingStore fuerza el mismo error en toda operación.
type failingStore struct {
	tablestore.Store
	err error
}

func (f *failingStore) Select(ctx context.Context, collection string, q tablestore.Query) ([]tablestore.Record, error) {
	return nil, f.err
}
func (f *failingStore) Insert(ctx context.Context, collection string, values tablestore.Record) (tablestore.Record, error) {
	return nil, f.err
}
func (f *failingStore) Update(ctx context.Context, collection string, id string, patch tablestore.Record) (tablestore.Record, error) {
	return nil, f.err
}
func (f *failingStore) Delete(ctx context.Context, collection string, id string) error {
	return f.err
}

func artworkInput(title string) tablestore.Record {
	return tablestore.Record{
		"title":    title,
		"author":   "Rina",
		"category": "lukisan",
	}
}

func TestCreatePrependsConfirmedRecord(t *testing.T) {
	store := memory.New()
	sink := notify.NewMemory()
	h := resource.NewHook(store, nil, sink, resource.Artworks())
	ctx := context.Background()

	first, err := h.Create(ctx, artworkInput("primera"))
	require.NoError(t, err)
	second, err := h.Create(ctx, artworkInput("segunda"))
	require.NoError(t, err)

	items := h.Items()
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID, "newest-first")
	assert.Equal(t, first.ID, items[1].ID)
	assert.NotEmpty(t, second.ID, "el id lo asigna el server, no el cliente")

	msgs := sink.Drain()
	require.Len(t, msgs, 2)
	assert.Equal(t, notify.LevelSuccess, msgs[0].Level)
	assert.Equal(t, "Karya berhasil ditambahkan", msgs[0].Message)
}

func TestCreateFailure(t *testing.T) {
	boom := errors.New("conexión caída")
	sink := notify.NewMemory()
	h := resource.NewHook(&failingStore{err: boom}, nil, sink, resource.Artworks())

	_, err := h.Create(context.Background(), artworkInput("x"))
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.Items())

	msgs := sink.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.LevelError, msgs[0].Level)
	assert.Equal(t, boom.Error(), msgs[0].Message)
}

func TestUpdateReplacesInPlace(t *testing.T) {
	store := memory.New()
	h := resource.NewHook(store, nil, notify.Discard, resource.Artworks())
	ctx := context.Background()

	a, _ := h.Create(ctx, artworkInput("a"))
	b, _ := h.Create(ctx, artworkInput("b"))

	updated, err := h.Update(ctx, a.ID, tablestore.Record{"title": "a editada"})
	require.NoError(t, err)
	assert.Equal(t, "a editada", updated.Title)

	items := h.Items()
	require.Len(t, items, 2)
	// b sigue primero (newest-first); a se reemplazó en su índice.
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, "a editada", items[1].Title)
}

func TestUpdateFailureLeavesListUntouched(t *testing.T) {
	store := memory.New()
	sink := notify.NewMemory()
	h := resource.NewHook(store, nil, sink, resource.Artworks())
	ctx := context.Background()

	a, _ := h.Create(ctx, artworkInput("a"))
	sink.Drain()

	// Update sobre un id inexistente: el store falla, la lista no cambia.
	_, err := h.Update(ctx, "no-such-id", tablestore.Record{"title": "x"})
	assert.ErrorIs(t, err, tablestore.ErrNotFound)

	items := h.Items()
	require.Len(t, items, 1)
	assert.Equal(t, a.Title, items[0].Title)

	msgs := sink.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, notify.LevelError, msgs[0].Level)
}

func TestDeleteRemovesFromList(t *testing.T) {
	store := memory.New()
	sink := notify.NewMemory()
	h := resource.NewHook(store, nil, sink, resource.Artworks())
	ctx := context.Background()

	a, _ := h.Create(ctx, artworkInput("a"))
	b, _ := h.Create(ctx, artworkInput("b"))
	sink.Drain()

	require.NoError(t, h.Delete(ctx, a.ID))

	items := h.Items()
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	msgs := sink.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Karya berhasil dihapus", msgs[0].Message)
}

func TestFetchAllReplacesListAndClearsError(t *testing.T) {
	store := memory.New()
	h := resource.NewHook(store, nil, notify.Discard, resource.Artworks())
	ctx := context.Background()

	_, err := store.Insert(ctx, "artworks", artworkInput("directa"))
	require.NoError(t, err)

	items, err := h.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Empty(t, h.Err())
	assert.False(t, h.Loading())
}

func TestFetchAllFailureKeepsPreviousList(t *testing.T) {
	store := memory.New()
	h := resource.NewHook(store, nil, notify.Discard, resource.Artworks())
	ctx := context.Background()

	_, err := h.Create(ctx, artworkInput("a"))
	require.NoError(t, err)

	// Un registro corrupto hace fallar la decodificación del snapshot.
	_, err = store.Insert(ctx, "artworks", tablestore.Record{"title": ""})
	require.NoError(t, err)

	_, err = h.FetchAll(ctx)
	assert.Error(t, err)
	assert.NotEmpty(t, h.Err())

	items := h.Items()
	require.Len(t, items, 1, "la lista previa queda intacta")
}
