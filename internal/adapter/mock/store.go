package mock

import (
	"context"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// Store implements domain.RecordStore over a Generator. Each fetch generates
// a fresh collection and applies the same filter semantics the backend does
// for that record kind.
type Store struct {
	gen *Generator
}

// NewStore creates a mock record store.
func NewStore(gen *Generator) *Store {
	return &Store{gen: gen}
}

func (s *Store) FetchTrend(ctx context.Context, f domain.Filter) ([]domain.TrendRecord, error) {
	if err := checkContext(ctx, domain.KindTrend); err != nil {
		return nil, err
	}
	return domain.FilterBy(s.gen.Trend(), f.Only(domain.KindParams(domain.KindTrend)...)), nil
}

// FetchTopDiseases returns the fixed ranking; the ranking is not broken down
// by state or week in mock mode.
func (s *Store) FetchTopDiseases(ctx context.Context, _ domain.Filter) ([]domain.TopDiseaseRecord, error) {
	if err := checkContext(ctx, domain.KindTopDiseases); err != nil {
		return nil, err
	}
	return s.gen.TopDiseases(), nil
}

// FetchClimate returns one record per state; climate records do not carry a
// disease, so the disease parameter does not narrow them.
func (s *Store) FetchClimate(ctx context.Context, f domain.Filter) ([]domain.ClimateRecord, error) {
	if err := checkContext(ctx, domain.KindClimate); err != nil {
		return nil, err
	}
	return domain.FilterBy(s.gen.Climate(), f.Only(domain.KindParams(domain.KindClimate)...)), nil
}

func (s *Store) FetchMap(ctx context.Context, f domain.Filter) ([]domain.MapRecord, error) {
	if err := checkContext(ctx, domain.KindMap); err != nil {
		return nil, err
	}
	return domain.FilterBy(s.gen.Map(), f.Only(domain.KindParams(domain.KindMap)...)), nil
}

func checkContext(ctx context.Context, kind domain.RecordKind) error {
	if err := ctx.Err(); err != nil {
		return &domain.FetchError{Kind: kind, Err: err}
	}
	return nil
}
