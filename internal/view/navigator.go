package view

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/observability"
)

// ErrClosed is returned by a Navigator after Close.
var ErrClosed = errors.New("navigator closed")

// DefaultWeek is the week the dashboard page starts on.
const DefaultWeek = "2024-W05"

// DefaultDisease is the disease the climate page starts on.
const DefaultDisease = "Dengue"

// Pages returns the configuration of the three dashboard pages over store.
// A nil geocoder disables place name enrichment on the map page.
func Pages(store domain.RecordStore, geocoder domain.Geocoder, logger *slog.Logger) []Config {
	return []Config{
		{
			Page:          domain.PageDashboard,
			InitialFilter: domain.Filter{Week: DefaultWeek},
			Fields:        []domain.Field{domain.FieldState, domain.FieldDisease, domain.FieldWeek},
			Load:          DashboardLoader(store),
		},
		{
			Page:          domain.PageClimate,
			InitialFilter: domain.Filter{Disease: DefaultDisease},
			Fields:        []domain.Field{domain.FieldDisease},
			Load:          ClimateLoader(store),
		},
		{
			Page:   domain.PageMap,
			Fields: []domain.Field{domain.FieldDisease, domain.FieldWeek},
			Load:   MapLoader(store, geocoder, logger),
		},
	}
}

// Navigator is the page state machine. Exactly one page is current; it
// starts on the first configured page. Navigate is the only transition.
type Navigator struct {
	logger  *slog.Logger
	metrics *observability.Metrics
	views   map[domain.Page]*View
	order   []domain.Page
	ready   atomic.Bool

	mu      sync.Mutex
	current domain.Page
	closed  bool

	layerMu sync.Mutex
	layer   *MapLayer
}

// NewNavigator builds one view per config, all sharing renderer.
func NewNavigator(pages []Config, renderer Renderer, logger *slog.Logger, metrics *observability.Metrics) *Navigator {
	n := &Navigator{
		logger:  logger,
		metrics: metrics,
		views:   make(map[domain.Page]*View, len(pages)),
	}
	for _, cfg := range pages {
		v := New(cfg, renderer, logger, metrics)
		v.setOnApply(n.applied)
		n.views[cfg.Page] = v
		n.order = append(n.order, cfg.Page)
	}
	if len(n.order) > 0 {
		n.current = n.order[0]
		if n.current == domain.PageMap {
			n.acquireLayer()
		}
	}
	return n
}

// Current returns the current page.
func (n *Navigator) Current() domain.Page {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// View returns the view of a page.
func (n *Navigator) View(page domain.Page) (*View, error) {
	v, ok := n.views[page]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPage, page)
	}
	return v, nil
}

// Navigate makes page current and refreshes it. Leaving a page cancels its
// in-flight refresh and restores its initial filter; leaving the map page
// closes the map layer. Navigating to the current page only refreshes it.
func (n *Navigator) Navigate(ctx context.Context, page domain.Page) (domain.Snapshot, error) {
	next, err := n.View(page)
	if err != nil {
		return domain.Snapshot{}, err
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return domain.Snapshot{}, ErrClosed
	}
	if prev := n.current; prev != page {
		n.views[prev].Cancel()
		if prev == domain.PageMap {
			n.releaseLayer()
		}
		if page == domain.PageMap {
			n.acquireLayer()
		}
		n.current = page
		n.metrics.Navigations.WithLabelValues(string(page)).Inc()
		n.logger.Info("navigated", "from", string(prev), "to", string(page))
	}
	n.mu.Unlock()

	return next.Refresh(ctx)
}

// Refresh reloads the current page.
func (n *Navigator) Refresh(ctx context.Context) (domain.Snapshot, error) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return domain.Snapshot{}, ErrClosed
	}
	v := n.views[n.current]
	n.mu.Unlock()
	return v.Refresh(ctx)
}

// Select sets a filter field of the current page and refreshes it.
func (n *Navigator) Select(ctx context.Context, page domain.Page, field domain.Field, value string) (domain.Snapshot, error) {
	v, err := n.withActive(page, func(v *View) error {
		return v.Select(field, value)
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return v.Refresh(ctx)
}

// Reset restores the initial filter of the current page and refreshes it.
func (n *Navigator) Reset(ctx context.Context, page domain.Page) (domain.Snapshot, error) {
	v, err := n.withActive(page, func(v *View) error {
		v.Reset()
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return v.Refresh(ctx)
}

// Layer returns the map layer while the map page is current.
func (n *Navigator) Layer() (*MapLayer, error) {
	n.layerMu.Lock()
	defer n.layerMu.Unlock()
	if n.layer == nil {
		return nil, ErrMapInactive
	}
	return n.layer, nil
}

// CheckReadiness reports ready once any page has applied a snapshot.
func (n *Navigator) CheckReadiness(_ context.Context) error {
	if !n.ready.Load() {
		return errors.New("no view has been rendered yet")
	}
	return nil
}

// Close cancels every in-flight refresh and releases the map layer.
func (n *Navigator) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	for _, page := range n.order {
		n.views[page].Cancel()
	}
	n.releaseLayer()
	return nil
}

// withActive runs fn on the view of page while page is current, so a
// concurrent Navigate cannot interleave with the filter change.
func (n *Navigator) withActive(page domain.Page, fn func(*View) error) (*View, error) {
	v, err := n.View(page)
	if err != nil {
		return nil, err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil, ErrClosed
	}
	if n.current != page {
		return nil, fmt.Errorf("%w: %s (current %s)", ErrPageInactive, page, n.current)
	}
	if err := fn(v); err != nil {
		return nil, err
	}
	return v, nil
}

// applied runs under the applying view's lock.
func (n *Navigator) applied(s domain.Snapshot) {
	n.ready.Store(true)
	if s.Page != domain.PageMap || s.Map == nil {
		return
	}

	n.layerMu.Lock()
	defer n.layerMu.Unlock()
	if n.layer == nil {
		return
	}
	if err := n.layer.Update(domain.MapFeatures(s.Map.Points)); err != nil {
		n.logger.Warn("map layer update failed", "generation", s.Generation, "error", err)
	}
}

func (n *Navigator) acquireLayer() {
	n.layerMu.Lock()
	defer n.layerMu.Unlock()
	if n.layer == nil {
		n.layer = openMapLayer(n.metrics)
	}
}

func (n *Navigator) releaseLayer() {
	n.layerMu.Lock()
	defer n.layerMu.Unlock()
	if n.layer != nil {
		_ = n.layer.Close()
		n.layer = nil
	}
}
