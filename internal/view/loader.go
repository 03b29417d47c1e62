package view

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// Loader fetches and derives the payload of one page for a filter. The
// returned snapshot only needs its page payload set; the view stamps the
// rest.
type Loader func(ctx context.Context, f domain.Filter) (domain.Snapshot, error)

// DashboardLoader fetches trend and top-disease records concurrently.
func DashboardLoader(store domain.RecordStore) Loader {
	return func(ctx context.Context, f domain.Filter) (domain.Snapshot, error) {
		var (
			trend []domain.TrendRecord
			top   []domain.TopDiseaseRecord
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			records, err := store.FetchTrend(gctx, kindFilter(domain.KindTrend, f))
			if err != nil {
				return err
			}
			trend = domain.FilterBy(records, kindFilter(domain.KindTrend, f))
			return nil
		})
		g.Go(func() error {
			records, err := store.FetchTopDiseases(gctx, kindFilter(domain.KindTopDiseases, f))
			if err != nil {
				return err
			}
			top = domain.FilterBy(records, kindFilter(domain.KindTopDiseases, f))
			return nil
		})
		if err := g.Wait(); err != nil {
			return domain.Snapshot{}, err
		}

		return domain.Snapshot{
			Page:      domain.PageDashboard,
			Dashboard: domain.NewDashboardData(trend, top),
		}, nil
	}
}

// ClimateLoader fetches climate impact records.
func ClimateLoader(store domain.RecordStore) Loader {
	return func(ctx context.Context, f domain.Filter) (domain.Snapshot, error) {
		kf := kindFilter(domain.KindClimate, f)
		records, err := store.FetchClimate(ctx, kf)
		if err != nil {
			return domain.Snapshot{}, err
		}
		return domain.Snapshot{
			Page:    domain.PageClimate,
			Climate: domain.NewClimateData(domain.FilterBy(records, kf)),
		}, nil
	}
}

// MapLoader fetches map points and, with a non-nil geocoder, fills their
// place names.
func MapLoader(store domain.RecordStore, geocoder domain.Geocoder, logger *slog.Logger) Loader {
	return func(ctx context.Context, f domain.Filter) (domain.Snapshot, error) {
		kf := kindFilter(domain.KindMap, f)
		records, err := store.FetchMap(ctx, kf)
		if err != nil {
			return domain.Snapshot{}, err
		}
		points := domain.EnrichMapRecords(ctx, domain.FilterBy(records, kf), geocoder, logger)
		return domain.Snapshot{
			Page: domain.PageMap,
			Map:  domain.NewMapData(points),
		}, nil
	}
}

// kindFilter restricts f to the parameters the backend accepts for kind, so
// the local subset matches what the backend would return.
func kindFilter(kind domain.RecordKind, f domain.Filter) domain.Filter {
	return f.Only(domain.KindParams(kind)...)
}
