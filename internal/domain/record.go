package domain

import (
	"errors"
	"fmt"
)

// RecordKind identifies one of the four record collections.
type RecordKind string

const (
	KindTrend       RecordKind = "trend"
	KindTopDiseases RecordKind = "top-diseases"
	KindClimate     RecordKind = "climate"
	KindMap         RecordKind = "map"
)

// TrendRecord is the weekly case count for one state and disease.
type TrendRecord struct {
	Week    string `json:"week"`
	Cases   int    `json:"cases"`
	State   string `json:"state"`
	Disease string `json:"disease"`
}

// TopDiseaseRecord is one entry of a top-N disease ranking.
type TopDiseaseRecord struct {
	Disease    string  `json:"disease"`
	Cases      int     `json:"cases"`
	Percentage float64 `json:"percentage"` // share of cases, 0–100
}

// ClimateRecord pairs per-state climate averages with the case count.
type ClimateRecord struct {
	State    string  `json:"state"`
	AvgTemp  float64 `json:"avgTemp"`  // °C
	AvgPreci float64 `json:"avgPreci"` // mm
	AvgLAI   float64 `json:"avgLAI"`   // leaf area index
	Cases    int     `json:"cases"`
}

// MapRecord is a district-level case count with coordinates.
type MapRecord struct {
	District  string  `json:"district"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Cases     int     `json:"cases"`
	Disease   string  `json:"disease"`
	Week      string  `json:"week"`

	// Geocoding enrichment.
	PlaceName string `json:"placeName,omitempty"`
}

var errNegativeCases = errors.New("cases must be non-negative")

// Validate checks the record invariants.
func (r TrendRecord) Validate() error {
	if r.Cases < 0 {
		return errNegativeCases
	}
	return nil
}

// Validate checks the record invariants.
func (r TopDiseaseRecord) Validate() error {
	if r.Cases < 0 {
		return errNegativeCases
	}
	if r.Percentage < 0 || r.Percentage > 100 {
		return fmt.Errorf("percentage %g outside [0,100]", r.Percentage)
	}
	return nil
}

// Validate checks the record invariants.
func (r ClimateRecord) Validate() error {
	if r.Cases < 0 {
		return errNegativeCases
	}
	if r.AvgPreci < 0 {
		return fmt.Errorf("avgPreci %g is negative", r.AvgPreci)
	}
	if r.AvgLAI < 0 {
		return fmt.Errorf("avgLAI %g is negative", r.AvgLAI)
	}
	return nil
}

// Validate checks the record invariants.
func (r MapRecord) Validate() error {
	if r.Cases < 0 {
		return errNegativeCases
	}
	if r.Latitude < -90 || r.Latitude > 90 {
		return fmt.Errorf("latitude %g outside [-90,90]", r.Latitude)
	}
	if r.Longitude < -180 || r.Longitude > 180 {
		return fmt.Errorf("longitude %g outside [-180,180]", r.Longitude)
	}
	return nil
}

// Dimension implements Dimensional.
func (r TrendRecord) Dimension(f Field) (string, bool) {
	switch f {
	case FieldState:
		return r.State, true
	case FieldDisease:
		return r.Disease, true
	case FieldWeek:
		return r.Week, true
	}
	return "", false
}

// Dimension implements Dimensional.
func (r TopDiseaseRecord) Dimension(f Field) (string, bool) {
	if f == FieldDisease {
		return r.Disease, true
	}
	return "", false
}

// Dimension implements Dimensional.
func (r ClimateRecord) Dimension(f Field) (string, bool) {
	if f == FieldState {
		return r.State, true
	}
	return "", false
}

// Dimension implements Dimensional.
func (r MapRecord) Dimension(f Field) (string, bool) {
	switch f {
	case FieldState:
		return r.State, true
	case FieldDisease:
		return r.Disease, true
	case FieldWeek:
		return r.Week, true
	}
	return "", false
}

// Field accessors used with the aggregation helpers.

func TrendCases(r TrendRecord) float64 { return float64(r.Cases) }
func TrendState(r TrendRecord) string { return r.State }
func TrendDisease(r TrendRecord) string { return r.Disease }
func ClimateTemp(r ClimateRecord) float64 { return r.AvgTemp }
func ClimatePreci(r ClimateRecord) float64 { return r.AvgPreci }
func ClimateLAI(r ClimateRecord) float64 { return r.AvgLAI }
func ClimateCases(r ClimateRecord) float64 { return float64(r.Cases) }
func MapCases(r MapRecord) float64 { return float64(r.Cases) }
func TopDiseaseCases(r TopDiseaseRecord) float64 { return float64(r.Cases) }
