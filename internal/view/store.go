package view

import (
	"context"
	"time"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/observability"
)

// InstrumentedStore records fetch counts and durations around a RecordStore.
type InstrumentedStore struct {
	inner   domain.RecordStore
	metrics *observability.Metrics
}

// NewInstrumentedStore wraps store with fetch metrics.
func NewInstrumentedStore(store domain.RecordStore, metrics *observability.Metrics) *InstrumentedStore {
	return &InstrumentedStore{inner: store, metrics: metrics}
}

func (s *InstrumentedStore) FetchTrend(ctx context.Context, f domain.Filter) ([]domain.TrendRecord, error) {
	return observe(s.metrics, domain.KindTrend, func() ([]domain.TrendRecord, error) {
		return s.inner.FetchTrend(ctx, f)
	})
}

func (s *InstrumentedStore) FetchTopDiseases(ctx context.Context, f domain.Filter) ([]domain.TopDiseaseRecord, error) {
	return observe(s.metrics, domain.KindTopDiseases, func() ([]domain.TopDiseaseRecord, error) {
		return s.inner.FetchTopDiseases(ctx, f)
	})
}

func (s *InstrumentedStore) FetchClimate(ctx context.Context, f domain.Filter) ([]domain.ClimateRecord, error) {
	return observe(s.metrics, domain.KindClimate, func() ([]domain.ClimateRecord, error) {
		return s.inner.FetchClimate(ctx, f)
	})
}

func (s *InstrumentedStore) FetchMap(ctx context.Context, f domain.Filter) ([]domain.MapRecord, error) {
	return observe(s.metrics, domain.KindMap, func() ([]domain.MapRecord, error) {
		return s.inner.FetchMap(ctx, f)
	})
}

func observe[T any](m *observability.Metrics, kind domain.RecordKind, fetch func() ([]T, error)) ([]T, error) {
	start := time.Now()
	records, err := fetch()
	m.FetchDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.FetchRequests.WithLabelValues(string(kind), outcome).Inc()
	return records, err
}
