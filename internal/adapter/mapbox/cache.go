package mapbox

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/observability"
)

// DefaultCacheSize is used when a non-positive cache size is requested.
const DefaultCacheSize = 1000

// CachedGeocoder wraps a Geocoder with an in-memory LRU cache keyed by
// coordinates rounded to six decimals.
type CachedGeocoder struct {
	inner   domain.Geocoder
	cache   *lru.Cache
	metrics *observability.Metrics
}

// NewCachedGeocoder creates a cache decorator around a geocoder.
func NewCachedGeocoder(inner domain.Geocoder, maxEntries int, metrics *observability.Metrics) *CachedGeocoder {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	// lru.New only fails for a non-positive size.
	cache, _ := lru.New(maxEntries)
	return &CachedGeocoder{
		inner:   inner,
		cache:   cache,
		metrics: metrics,
	}
}

func (c *CachedGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (domain.GeocodingResult, error) {
	key := cacheKey(lat, lon)
	if v, ok := c.cache.Get(key); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return v.(domain.GeocodingResult), nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	result, err := c.inner.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		return result, err
	}
	// Only cache non-empty results so transient "not found" responses can be retried.
	if result.FormattedAddress != "" {
		c.cache.Add(key, result)
	}
	return result, nil
}

// Len reports the number of cached results.
func (c *CachedGeocoder) Len() int {
	return c.cache.Len()
}

func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("rev:%.6f,%.6f", lat, lon)
}
