// Package stats calcula los contadores del dashboard admin con consultas
// count en paralelo.
package stats

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nusarupa/nusarupa/internal/domain"
	"github.com/nusarupa/nusarupa/internal/tablestore"
)

// Dashboard son los contadores que muestra el panel.
type Dashboard struct {
	TotalArtworks      int64 `json:"total_artworks"`
	TotalActivities    int64 `json:"total_activities"`
	TotalDonations     int64 `json:"total_donations"`
	TotalUsers         int64 `json:"total_users"`
	ActiveDonations    int64 `json:"active_donations"`
	UpcomingActivities int64 `json:"upcoming_activities"`
}

type Service struct {
	store tablestore.Store
}

func NewService(store tablestore.Store) *Service {
	return &Service{store: store}
}

// Dashboard ejecuta los seis counts en paralelo; el primero que falla
// cancela al resto.
func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	today := time.Now().Format("2006-01-02")

	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int64, collection string, conds ...tablestore.Cond) {
		g.Go(func() error {
			n, err := s.store.Count(ctx, collection, conds...)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&d.TotalArtworks, domain.CollectionArtworks)
	count(&d.TotalActivities, domain.CollectionActivities)
	count(&d.TotalDonations, domain.CollectionDonations)
	count(&d.TotalUsers, domain.CollectionProfiles)
	count(&d.ActiveDonations, domain.CollectionDonations, tablestore.Eq("is_active", true))
	count(&d.UpcomingActivities, domain.CollectionActivities, tablestore.Gte("date", today))

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
