package view

import (
	"context"
	"errors"

	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
)

// Renderer consumes applied snapshots.
type Renderer interface {
	Render(ctx context.Context, s domain.Snapshot) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, s domain.Snapshot) error

func (f RendererFunc) Render(ctx context.Context, s domain.Snapshot) error {
	return f(ctx, s)
}

// MultiRenderer fans a snapshot out to every renderer. All renderers are
// called; their errors are joined.
type MultiRenderer []Renderer

func (m MultiRenderer) Render(ctx context.Context, s domain.Snapshot) error {
	var errs []error
	for _, r := range m {
		if err := r.Render(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type nopRenderer struct{}

func (nopRenderer) Render(context.Context, domain.Snapshot) error { return nil }
