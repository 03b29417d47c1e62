package view

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/observability"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// --- helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingRenderer struct {
	mu    sync.Mutex
	snaps []domain.Snapshot
	err   error
}

func (r *recordingRenderer) Render(_ context.Context, s domain.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
	return r.err
}

func (r *recordingRenderer) rendered() []domain.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Snapshot(nil), r.snaps...)
}

func trendSnapshot(f domain.Filter) domain.Snapshot {
	return domain.Snapshot{
		Dashboard: domain.NewDashboardData(
			[]domain.TrendRecord{{Week: "2024-W01", Cases: 10, State: f.State, Disease: "Dengue"}},
			nil,
		),
	}
}

func newDashboardView(load Loader, r Renderer, m *observability.Metrics) *View {
	return New(Config{
		Page:          domain.PageDashboard,
		InitialFilter: domain.Filter{Week: DefaultWeek},
		Fields:        []domain.Field{domain.FieldState, domain.FieldDisease, domain.FieldWeek},
		Load:          load,
	}, r, discardLogger(), m)
}

// --- tests ---

func TestView_RefreshAppliesSnapshot(t *testing.T) {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC))
	domain.SetClock(clk)
	t.Cleanup(func() { domain.SetClock(clockwork.NewRealClock()) })

	r := &recordingRenderer{}
	metrics := observability.NewMetricsForTesting()
	v := newDashboardView(func(_ context.Context, f domain.Filter) (domain.Snapshot, error) {
		return trendSnapshot(f), nil
	}, r, metrics)

	_, ok := v.Latest()
	assert.False(t, ok)

	snap, err := v.Refresh(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.PageDashboard, snap.Page)
	assert.Equal(t, uint64(1), snap.Generation)
	assert.Equal(t, domain.Filter{Week: DefaultWeek}, snap.Filter)
	assert.Equal(t, clk.Now(), snap.RenderedAt)
	assert.NotEmpty(t, snap.ID)
	assert.Empty(t, snap.Error)

	latest, ok := v.Latest()
	require.True(t, ok)
	assert.Equal(t, snap, latest)

	require.Len(t, r.rendered(), 1)
	assert.Equal(t, snap.ID, r.rendered()[0].ID)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Renders.WithLabelValues("dashboard")), 0)
}

func TestView_StaleResultDiscarded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	metrics := observability.NewMetricsForTesting()
	r := &recordingRenderer{}

	v := newDashboardView(func(_ context.Context, f domain.Filter) (domain.Snapshot, error) {
		if f.State == "Delhi" {
			close(started)
			// Completes regardless of cancellation, like a response already on the wire.
			<-release
		}
		return trendSnapshot(f), nil
	}, r, metrics)

	require.NoError(t, v.Select(domain.FieldState, "Delhi"))

	type result struct {
		snap domain.Snapshot
		err  error
	}
	first := make(chan result, 1)
	go func() {
		s, err := v.Refresh(context.Background())
		first <- result{s, err}
	}()
	<-started

	require.NoError(t, v.Select(domain.FieldState, "Gujarat"))
	second, err := v.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Generation)

	close(release)
	res := <-first
	require.ErrorIs(t, res.err, ErrStale)

	latest, ok := v.Latest()
	require.True(t, ok)
	assert.Equal(t, "Gujarat", latest.Filter.State, "older fetch must not overwrite the newer one")
	assert.Equal(t, "Gujarat", latest.Dashboard.Trend[0].State)

	require.Len(t, r.rendered(), 1)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.StaleDiscarded.WithLabelValues("dashboard")), 0)
}

func TestView_RefreshCancelsPreviousFetch(t *testing.T) {
	started := make(chan struct{}, 1)
	v := newDashboardView(func(ctx context.Context, f domain.Filter) (domain.Snapshot, error) {
		if f.State == "Delhi" {
			started <- struct{}{}
			<-ctx.Done()
			return domain.Snapshot{}, ctx.Err()
		}
		return trendSnapshot(f), nil
	}, nil, observability.NewMetricsForTesting())

	require.NoError(t, v.Select(domain.FieldState, "Delhi"))
	errc := make(chan error, 1)
	go func() {
		_, err := v.Refresh(context.Background())
		errc <- err
	}()
	<-started

	require.NoError(t, v.Select(domain.FieldState, "Gujarat"))
	_, err := v.Refresh(context.Background())
	require.NoError(t, err)

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrStale)
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}
}

func TestView_CancelInvalidatesInFlight(t *testing.T) {
	started := make(chan struct{})
	v := newDashboardView(func(ctx context.Context, _ domain.Filter) (domain.Snapshot, error) {
		close(started)
		<-ctx.Done()
		return domain.Snapshot{}, ctx.Err()
	}, nil, observability.NewMetricsForTesting())

	require.NoError(t, v.Select(domain.FieldState, "Delhi"))
	errc := make(chan error, 1)
	go func() {
		_, err := v.Refresh(context.Background())
		errc <- err
	}()
	<-started

	v.Cancel()

	require.ErrorIs(t, <-errc, ErrStale)
	assert.Equal(t, domain.Filter{Week: DefaultWeek}, v.Filter(), "cancel restores the initial filter")
	_, ok := v.Latest()
	assert.False(t, ok)
}

func TestView_FailsToEmpty(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	r := &recordingRenderer{}
	fetchErr := &domain.FetchError{Kind: domain.KindTrend, StatusCode: 503, Err: errors.New("unavailable")}

	v := newDashboardView(func(context.Context, domain.Filter) (domain.Snapshot, error) {
		return domain.Snapshot{}, fetchErr
	}, r, metrics)

	snap, err := v.Refresh(context.Background())
	require.NoError(t, err, "fetch failures are not propagated")

	assert.Contains(t, snap.Error, "status 503")
	require.NotNil(t, snap.Dashboard)
	assert.Empty(t, snap.Dashboard.Trend)
	assert.NotNil(t, snap.Dashboard.Trend)
	assert.Empty(t, snap.Dashboard.TopDiseases)
	assert.Equal(t, domain.DashboardSummary{}, snap.Dashboard.Summary)
	assert.Equal(t, uint64(1), snap.Generation)

	assert.Len(t, r.rendered(), 1)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.FetchFailures.WithLabelValues("dashboard")), 0)
}

func TestView_CallerCancellationNotApplied(t *testing.T) {
	v := newDashboardView(func(ctx context.Context, _ domain.Filter) (domain.Snapshot, error) {
		return domain.Snapshot{}, ctx.Err()
	}, nil, observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := v.Refresh(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, ok := v.Latest()
	assert.False(t, ok)
}

func TestView_RenderErrorDoesNotFailRefresh(t *testing.T) {
	metrics := observability.NewMetricsForTesting()
	r := &recordingRenderer{err: errors.New("broker down")}
	v := newDashboardView(func(_ context.Context, f domain.Filter) (domain.Snapshot, error) {
		return trendSnapshot(f), nil
	}, r, metrics)

	_, err := v.Refresh(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.RenderErrors.WithLabelValues("dashboard")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.Renders.WithLabelValues("dashboard")), 0)
}

func TestView_SelectAndReset(t *testing.T) {
	v := New(Config{
		Page:          domain.PageClimate,
		InitialFilter: domain.Filter{Disease: DefaultDisease},
		Fields:        []domain.Field{domain.FieldDisease},
	}, nil, discardLogger(), observability.NewMetricsForTesting())

	require.NoError(t, v.Select(domain.FieldDisease, "Malaria"))
	assert.Equal(t, domain.Filter{Disease: "Malaria"}, v.Filter())

	err := v.Select(domain.FieldState, "Delhi")
	require.ErrorIs(t, err, ErrFieldNotAllowed)

	err = v.Select(domain.Field("region"), "North")
	require.ErrorIs(t, err, domain.ErrUnknownField)

	v.Reset()
	assert.Equal(t, domain.Filter{Disease: DefaultDisease}, v.Filter())
}

func TestMultiRenderer_CallsAllAndJoinsErrors(t *testing.T) {
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	var called []string

	m := MultiRenderer{
		RendererFunc(func(context.Context, domain.Snapshot) error { called = append(called, "a"); return errA }),
		RendererFunc(func(context.Context, domain.Snapshot) error { called = append(called, "ok"); return nil }),
		RendererFunc(func(context.Context, domain.Snapshot) error { called = append(called, "b"); return errB }),
	}

	err := m.Render(context.Background(), domain.Snapshot{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, []string{"a", "ok", "b"}, called)

	assert.NoError(t, MultiRenderer{}.Render(context.Background(), domain.Snapshot{}))
}
