package stats_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/stats"
	"github.com/nusarupa/nusarupa/internal/tablestore"
	"github.com/nusarupa/nusarupa/internal/tablestore/memory"
)

func insert(t *testing.T, store tablestore.Store, collection string, rec tablestore.Record) {
	t.Helper()
	_, err := store.Insert(context.Background(), collection, rec)
	require.NoError(t, err)
}

func TestDashboardCounts(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	insert(t, store, domain.CollectionArtworks, tablestore.Record{"title": "Batik"})
	insert(t, store, domain.CollectionArtworks, tablestore.Record{"title": "Wayang"})

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	insert(t, store, domain.CollectionActivities, tablestore.Record{"title": "Lokakarya", "date": yesterday})
	insert(t, store, domain.CollectionActivities, tablestore.Record{"title": "Pameran", "date": tomorrow})

	insert(t, store, domain.CollectionDonations, tablestore.Record{"title": "Aktif", "is_active": true})
	insert(t, store, domain.CollectionDonations, tablestore.Record{"title": "Selesai", "is_active": false})
	insert(t, store, domain.CollectionDonations, tablestore.Record{"title": "Aktif dua", "is_active": true})

	insert(t, store, domain.CollectionProfiles, tablestore.Record{"user_id": "u1"})

	d, err := stats.NewService(store).Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), d.TotalArtworks)
	assert.Equal(t, int64(2), d.TotalActivities)
	assert.Equal(t, int64(3), d.TotalDonations)
	assert.Equal(t, int64(1), d.TotalUsers)
	assert.Equal(t, int64(2), d.ActiveDonations)
	assert.Equal(t, int64(1), d.UpcomingActivities, "solo hoy en adelante")
}

func TestDashboardEmptyStore(t *testing.T) {
	d, err := stats.NewService(memory.New()).Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Dashboard{}, d)
}

type countFailStore struct {
	tablestore.Store
	failOn string
}

func (s *countFailStore) Count(ctx context.Context, collection string, conds ...tablestore.Cond) (int64, error) {
	if collection == s.failOn {
		return 0, assert.AnError
	}
	return s.Store.Count(ctx, collection, conds...)
}

func TestDashboardPropagatesCountError(t *testing.T) {
	store := &countFailStore{Store: memory.New(), failOn: domain.CollectionProfiles}
	_, err := stats.NewService(store).Dashboard(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
