package view

import (
	"iter"
	"slices"
	"sync"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/observability"
)

// MapLayer is the GeoJSON point source of the outbreak map. It is owned by
// the map page: acquired when the page is entered and closed when it is left.
type MapLayer struct {
	metrics *observability.Metrics

	mu      sync.RWMutex
	closed  bool
	version uint64
	fc      domain.FeatureCollection
}

func openMapLayer(metrics *observability.Metrics) *MapLayer {
	metrics.MapLayerActive.Set(1)
	return &MapLayer{
		metrics: metrics,
		fc:      domain.NewFeatureCollection(func(func(domain.Feature) bool) {}),
	}
}

// Update replaces the layer's features.
func (l *MapLayer) Update(features iter.Seq[domain.Feature]) error {
	fc := domain.NewFeatureCollection(features)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLayerClosed
	}
	l.fc = fc
	l.version++
	return nil
}

// GeoJSON returns a copy of the current feature collection.
func (l *MapLayer) GeoJSON() (domain.FeatureCollection, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return domain.FeatureCollection{}, ErrLayerClosed
	}
	fc := l.fc
	fc.Features = slices.Clone(l.fc.Features)
	return fc, nil
}

// Version counts the updates applied to the layer.
func (l *MapLayer) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

// Closed reports whether the layer has been released.
func (l *MapLayer) Closed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.closed
}

// Close releases the layer. Closing twice is a no-op.
func (l *MapLayer) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	l.fc = domain.FeatureCollection{}
	l.metrics.MapLayerActive.Set(0)
	return nil
}
