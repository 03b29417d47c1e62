// Package view holds the per-page view state of the dashboard and the
// navigation state machine between pages.
//
// Every refresh of a view is tagged with a monotonically increasing
// generation. A fetch result is applied only while its generation is still
// the latest issued for that view; superseded results are discarded and
// reported as ErrStale. Navigating away from a page cancels its in-flight
// fetch and restores its initial filter.
//
// The map page owns a MapLayer, acquired on entry and closed on exit.
package view
