package domain

import "iter"

// FeatureCollection is a GeoJSON point layer of outbreak districts.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON point.
type Feature struct {
	Type       string            `json:"type"`
	Geometry   Point             `json:"geometry"`
	Properties FeatureProperties `json:"properties"`
}

// Point is a GeoJSON point geometry. Coordinates are [lon, lat].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// FeatureProperties are the popup fields of a district point.
type FeatureProperties struct {
	District  string `json:"district"`
	State     string `json:"state"`
	Disease   string `json:"disease"`
	Week      string `json:"week"`
	Cases     int    `json:"cases"`
	PlaceName string `json:"placeName,omitempty"`
}

// MapFeatures yields one point feature per map record, in order.
func MapFeatures(points []MapRecord) iter.Seq[Feature] {
	return func(yield func(Feature) bool) {
		for _, p := range points {
			f := Feature{
				Type: "Feature",
				Geometry: Point{
					Type:        "Point",
					Coordinates: [2]float64{p.Longitude, p.Latitude},
				},
				Properties: FeatureProperties{
					District:  p.District,
					State:     p.State,
					Disease:   p.Disease,
					Week:      p.Week,
					Cases:     p.Cases,
					PlaceName: p.PlaceName,
				},
			}
			if !yield(f) {
				return
			}
		}
	}
}

// NewFeatureCollection collects features into a FeatureCollection. The
// Features slice is never nil so it encodes as [].
func NewFeatureCollection(features iter.Seq[Feature]) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	for f := range features {
		fc.Features = append(fc.Features, f)
	}
	return fc
}
