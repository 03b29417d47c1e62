// Package domain models weekly disease surveillance records and the pure
// aggregation layer the dashboard views are built from.
//
// # Data Source
//
// Records come from one of two interchangeable [RecordStore] implementations:
// the surveillance query API (remote mode) or a synthetic generator (mock
// mode). Both return flat collections shaped per record kind; a fresh
// collection is produced on every fetch and never mutated afterwards.
//
// # Record Kinds
//
//	trend         week, state, disease, cases          (one row per combination)
//	top-diseases  disease, cases, percentage           (top-N, percentages need not sum to 100)
//	climate       state, avgTemp, avgPreci, avgLAI, cases (one row per state)
//	map           district, state, lat, lon, cases, disease, week
//
// Weeks are ISO-week labels, e.g. "2024-W05". States and diseases are
// categorical and compared exactly (case-sensitive).
//
// # Filters
//
// A [Filter] constrains up to three dimensions: state, disease and week. An
// empty field is absent and imposes no constraint. Record kinds that do not
// carry a dimension are not constrained by it; such dimensions only matter as
// query parameters for the backend (see [KindParams]).
//
// # Aggregation
//
// [FilterBy], [Sum], [Average], [RoundedAverage], [DistinctCount] and [Max]
// are total functions: an empty collection yields 0, never NaN or an error.
// Average divides by max(count, 1) so a view with no matching data shows 0.
// The page summaries ([SummarizeDashboard], [SummarizeClimate],
// [SummarizeMap]) are built on top of them.
package domain
