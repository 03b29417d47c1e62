package view

import "errors"

var (
	// ErrStale is returned by Refresh when a newer refresh or a navigation
	// superseded it before its result could be applied.
	ErrStale = errors.New("refresh superseded")

	// ErrFieldNotAllowed is returned when a filter field is not used by a page.
	ErrFieldNotAllowed = errors.New("filter field not used by page")

	// ErrPageInactive is returned for filter changes on a page that is not
	// the current page.
	ErrPageInactive = errors.New("page is not active")

	// ErrLayerClosed is returned by a MapLayer after Close.
	ErrLayerClosed = errors.New("map layer closed")

	// ErrMapInactive is returned when the map layer is requested while the
	// map page is not active.
	ErrMapInactive = errors.New("map page is not active")
)
