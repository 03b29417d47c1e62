package view

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/observability"
)

// Config describes one page.
type Config struct {
	Page          domain.Page
	InitialFilter domain.Filter
	Fields        []domain.Field // selectable filter fields
	Load          Loader
}

// View is the state of one page: its filter, the latest applied snapshot
// and the generation of the most recent refresh.
type View struct {
	page    domain.Page
	fields  []domain.Field
	load    Loader
	render  Renderer
	logger  *slog.Logger
	metrics *observability.Metrics

	gen atomic.Uint64

	mu        sync.Mutex
	filter    *domain.FilterState
	cancel    context.CancelFunc
	latest    domain.Snapshot
	hasLatest bool
	onApply   func(domain.Snapshot)

	renderMu     sync.Mutex
	lastRendered uint64
}

// New creates a View. A nil renderer discards snapshots.
func New(cfg Config, renderer Renderer, logger *slog.Logger, metrics *observability.Metrics) *View {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	return &View{
		page:    cfg.Page,
		fields:  slices.Clone(cfg.Fields),
		load:    cfg.Load,
		render:  renderer,
		logger:  logger.With("page", string(cfg.Page)),
		metrics: metrics,
		filter:  domain.NewFilterState(cfg.InitialFilter),
	}
}

// Page returns the page id of the view.
func (v *View) Page() domain.Page { return v.page }

// Fields returns the selectable filter fields.
func (v *View) Fields() []domain.Field { return slices.Clone(v.fields) }

// Generation returns the most recently issued generation.
func (v *View) Generation() uint64 { return v.gen.Load() }

// Filter returns the current filter.
func (v *View) Filter() domain.Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.Current()
}

// Latest returns the most recently applied snapshot.
func (v *View) Latest() (domain.Snapshot, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.latest, v.hasLatest
}

// Select sets one filter field. It does not refresh.
func (v *View) Select(field domain.Field, value string) error {
	if !slices.Contains(v.fields, field) {
		if _, err := domain.ParseField(string(field)); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s does not filter by %s", ErrFieldNotAllowed, v.page, field)
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter.Select(field, value)
}

// Reset restores the initial filter. It does not refresh.
func (v *View) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.Reset()
}

// Refresh loads the view for its current filter and applies the result if
// no newer refresh was issued meanwhile. It cancels any refresh still in
// flight. A failed load is applied as an empty snapshot carrying the error
// message; only ErrStale and cancellation of ctx itself are returned.
func (v *View) Refresh(ctx context.Context) (domain.Snapshot, error) {
	v.mu.Lock()
	gen := v.gen.Add(1)
	if v.cancel != nil {
		v.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	f := v.filter.Current()
	v.mu.Unlock()
	defer cancel()

	snap, err := v.load(fetchCtx, f)

	if v.gen.Load() != gen {
		v.discard(gen)
		return domain.Snapshot{}, ErrStale
	}
	if err != nil {
		if ctx.Err() != nil {
			return domain.Snapshot{}, ctx.Err()
		}
		v.logger.Error("refresh failed, showing empty state", "generation", gen, "filter", f, "error", err)
		v.metrics.FetchFailures.WithLabelValues(string(v.page)).Inc()
		snap = domain.EmptySnapshot(v.page, f)
		snap.Error = err.Error()
	}

	snap.ID = uuid.NewString()
	snap.Page = v.page
	snap.Generation = gen
	snap.Filter = f
	if snap.RenderedAt.IsZero() {
		snap.RenderedAt = domain.Now()
	}

	v.mu.Lock()
	if v.gen.Load() != gen {
		v.mu.Unlock()
		v.discard(gen)
		return domain.Snapshot{}, ErrStale
	}
	v.latest = snap
	v.hasLatest = true
	v.cancel = nil
	if v.onApply != nil {
		v.onApply(snap)
	}
	v.mu.Unlock()

	v.emit(ctx, snap)
	return snap, nil
}

// Cancel invalidates the in-flight refresh and restores the view to its
// initial filter with no snapshot, as if newly mounted.
func (v *View) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.gen.Add(1)
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.filter.Reset()
	v.latest = domain.Snapshot{}
	v.hasLatest = false
}

func (v *View) discard(gen uint64) {
	v.logger.Debug("discarding stale result", "generation", gen, "latest", v.gen.Load())
	v.metrics.StaleDiscarded.WithLabelValues(string(v.page)).Inc()
}

// emit hands the snapshot to the renderer unless a newer one was already
// rendered. Render failures are logged, never returned.
func (v *View) emit(ctx context.Context, snap domain.Snapshot) {
	v.renderMu.Lock()
	defer v.renderMu.Unlock()

	if snap.Generation < v.lastRendered {
		return
	}
	v.lastRendered = snap.Generation

	if err := v.render.Render(context.WithoutCancel(ctx), snap); err != nil {
		v.logger.Warn("render failed", "generation", snap.Generation, "error", err)
		v.metrics.RenderErrors.WithLabelValues(string(v.page)).Inc()
		return
	}
	v.metrics.Renders.WithLabelValues(string(v.page)).Inc()
}

// setOnApply registers a hook run under the view lock for every applied
// snapshot.
func (v *View) setOnApply(fn func(domain.Snapshot)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.onApply = fn
}
