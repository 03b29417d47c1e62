package domain

import (
	"context"
	"errors"
	"fmt"
)

// RecordStore fetches record collections constrained by a filter.
// Implementations must not cache or retry; a failed fetch returns *FetchError.
type RecordStore interface {
	FetchTrend(ctx context.Context, f Filter) ([]TrendRecord, error)
	FetchTopDiseases(ctx context.Context, f Filter) ([]TopDiseaseRecord, error)
	FetchClimate(ctx context.Context, f Filter) ([]ClimateRecord, error)
	FetchMap(ctx context.Context, f Filter) ([]MapRecord, error)
}

// KindParams returns the filter fields the backend accepts for a record kind.
// Fields outside this set are never sent and never applied.
func KindParams(kind RecordKind) []Field {
	switch kind {
	case KindTrend:
		return []Field{FieldState, FieldDisease}
	case KindTopDiseases:
		return []Field{FieldState, FieldWeek}
	case KindClimate:
		return []Field{FieldDisease}
	case KindMap:
		return []Field{FieldDisease, FieldWeek}
	}
	return nil
}

// FetchError is the single failure kind of a RecordStore: network errors,
// timeouts, undecodable bodies and non-2xx responses.
type FetchError struct {
	Kind       RecordKind
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
