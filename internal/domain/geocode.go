package domain

import (
	"context"
	"log/slog"
)

// EnrichMapRecords returns a copy of points with PlaceName filled from
// reverse geocoding. A nil geocoder returns points unchanged. Lookup failures
// leave the record without a place name (graceful degradation); the first
// context error stops further lookups.
func EnrichMapRecords(ctx context.Context, points []MapRecord, geocoder Geocoder, logger *slog.Logger) []MapRecord {
	if geocoder == nil || len(points) == 0 {
		return points
	}

	out := make([]MapRecord, len(points))
	copy(out, points)

	for i := range out {
		if ctx.Err() != nil {
			return out
		}
		p := &out[i]
		if p.PlaceName != "" {
			continue
		}

		result, err := geocoder.ReverseGeocode(ctx, p.Latitude, p.Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"district", p.District,
				"lat", p.Latitude,
				"lon", p.Longitude,
				"error", err,
			)
			continue
		}
		if result.PlaceName != "" {
			p.PlaceName = result.PlaceName
		} else if result.FormattedAddress != "" {
			p.PlaceName = result.FormattedAddress
		}
	}
	return out
}
