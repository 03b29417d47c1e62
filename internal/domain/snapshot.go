package domain

import (
	"errors"
	"fmt"
	"time"
)

// Page identifies a dashboard view.
type Page string

const (
	PageDashboard Page = "dashboard"
	PageClimate   Page = "climate"
	PageMap       Page = "map"
)

// Pages lists every view in navigation order.
var Pages = []Page{PageDashboard, PageClimate, PageMap}

// ErrUnknownPage is returned for a page id outside Pages.
var ErrUnknownPage = errors.New("unknown page")

// ParsePage validates a page id.
func ParsePage(s string) (Page, error) {
	switch p := Page(s); p {
	case PageDashboard, PageClimate, PageMap:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// Snapshot is the fully derived state of one view after a refresh: the
// filtered collections and their summary metrics. Exactly one of the page
// payloads is set.
type Snapshot struct {
	ID         string    `json:"id"`
	Page       Page      `json:"page"`
	Generation uint64    `json:"generation"`
	Filter     Filter    `json:"filter"`
	RenderedAt time.Time `json:"renderedAt"`

	Dashboard *DashboardData `json:"dashboard,omitempty"`
	Climate   *ClimateData   `json:"climate,omitempty"`
	Map       *MapData       `json:"map,omitempty"`

	// Error carries the fetch failure message when the view fell back to an
	// empty state.
	Error string `json:"error,omitempty"`
}

// DashboardData is the trend view payload.
type DashboardData struct {
	Trend       []TrendRecord      `json:"trend"`
	TopDiseases []TopDiseaseRecord `json:"topDiseases"`
	Summary     DashboardSummary   `json:"summary"`
}

// ClimateData is the climate impact view payload.
type ClimateData struct {
	Records []ClimateRecord `json:"records"`
	Summary ClimateSummary  `json:"summary"`
}

// MapData is the outbreak map view payload.
type MapData struct {
	Points  []MapRecord       `json:"points"`
	Summary MapSummary        `json:"summary"`
	Layer   FeatureCollection `json:"layer"`
}

// NewDashboardData derives the dashboard payload from fetched collections.
func NewDashboardData(trend []TrendRecord, top []TopDiseaseRecord) *DashboardData {
	return &DashboardData{
		Trend:       nonNil(trend),
		TopDiseases: nonNil(top),
		Summary:     SummarizeDashboard(trend),
	}
}

// NewClimateData derives the climate payload from a fetched collection.
func NewClimateData(records []ClimateRecord) *ClimateData {
	return &ClimateData{
		Records: nonNil(records),
		Summary: SummarizeClimate(records),
	}
}

// NewMapData derives the map payload from a fetched collection.
func NewMapData(points []MapRecord) *MapData {
	return &MapData{
		Points:  nonNil(points),
		Summary: SummarizeMap(points),
		Layer:   NewFeatureCollection(MapFeatures(points)),
	}
}

// EmptySnapshot returns the zero-data snapshot of a page, used when a fetch
// fails so the view shows zero metrics instead of stale or missing data.
func EmptySnapshot(page Page, f Filter) Snapshot {
	s := Snapshot{Page: page, Filter: f, RenderedAt: clock.Now()}
	switch page {
	case PageDashboard:
		s.Dashboard = NewDashboardData(nil, nil)
	case PageClimate:
		s.Climate = NewClimateData(nil)
	case PageMap:
		s.Map = NewMapData(nil)
	}
	return s
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
