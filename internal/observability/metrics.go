package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "epi_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard views.
type Metrics struct {
	// Record store metrics.
	FetchRequests *prometheus.CounterVec   // labels: kind={trend,top-diseases,climate,map}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: kind

	// View metrics.
	FetchFailures  *prometheus.CounterVec // labels: page; fetches that fell back to the empty state
	StaleDiscarded *prometheus.CounterVec // labels: page
	Renders        *prometheus.CounterVec // labels: page
	RenderErrors   *prometheus.CounterVec // labels: page
	Navigations    *prometheus.CounterVec // labels: page
	MapLayerActive prometheus.Gauge

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.FetchFailures,
		m.StaleDiscarded,
		m.Renders,
		m.RenderErrors,
		m.Navigations,
		m.MapLayerActive,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Record store fetches by record kind and outcome.",
		}, []string{"kind", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Record store fetch duration in seconds.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"kind"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_fetch_failures_total",
			Help:      "View refreshes that fell back to the empty state after a fetch error.",
		}, []string{"page"}),
		StaleDiscarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_stale_results_total",
			Help:      "Fetch results discarded because a newer refresh superseded them.",
		}, []string{"page"}),
		Renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_renders_total",
			Help:      "Snapshots applied to a view.",
		}, []string{"page"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_render_errors_total",
			Help:      "Renderer failures by page.",
		}, []string{"page"}),
		Navigations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navigations_total",
			Help:      "Page transitions by destination page.",
		}, []string{"page"}),
		MapLayerActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "map_layer_active",
			Help:      "1 while the outbreak map layer is acquired, 0 otherwise.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Mapbox API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      "1 when geocoding enrichment is enabled, 0 otherwise.",
		}),
	}
}
