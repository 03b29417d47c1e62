package domain

import "math"

// Sum adds value over records. An empty collection sums to 0.
func Sum[T any](records []T, value func(T) float64) float64 {
	var total float64
	for _, r := range records {
		total += value(r)
	}
	return total
}

// Average is Sum divided by max(len(records), 1), so an empty collection
// averages to 0 instead of NaN.
func Average[T any](records []T, value func(T) float64) float64 {
	return Sum(records, value) / float64(max(len(records), 1))
}

// RoundedAverage rounds Average to the nearest integer, halves rounding up.
func RoundedAverage[T any](records []T, value func(T) float64) int {
	return int(math.Floor(Average(records, value) + 0.5))
}

// DistinctCount returns the number of distinct keys across records.
func DistinctCount[T any, K comparable](records []T, key func(T) K) int {
	seen := make(map[K]struct{}, len(records))
	for _, r := range records {
		seen[key(r)] = struct{}{}
	}
	return len(seen)
}

// Max returns the largest value, or 0 when records is empty or every value
// is negative.
func Max[T any](records []T, value func(T) float64) float64 {
	var m float64
	for _, r := range records {
		m = max(m, value(r))
	}
	return m
}

// roundTo rounds v to the given number of decimal places, halves away from zero.
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// DashboardSummary holds the headline metrics of the trend view.
type DashboardSummary struct {
	TotalCases     int `json:"totalCases"`
	WeeklyAverage  int `json:"weeklyAverage"`
	ActiveDiseases int `json:"activeDiseases"`
	StatesAffected int `json:"statesAffected"`
}

// SummarizeDashboard derives the dashboard metrics from a trend collection.
func SummarizeDashboard(trend []TrendRecord) DashboardSummary {
	return DashboardSummary{
		TotalCases:     int(Sum(trend, TrendCases)),
		WeeklyAverage:  RoundedAverage(trend, TrendCases),
		ActiveDiseases: DistinctCount(trend, TrendDisease),
		StatesAffected: DistinctCount(trend, TrendState),
	}
}

// ClimateSummary holds the cross-state climate averages.
type ClimateSummary struct {
	AvgTemp    float64 `json:"avgTemp"`    // one decimal place
	AvgPreci   float64 `json:"avgPreci"`   // one decimal place
	AvgLAI     float64 `json:"avgLAI"`     // two decimal places
	TotalCases int     `json:"totalCases"`
}

// SummarizeClimate derives the climate metrics from a climate collection.
func SummarizeClimate(climate []ClimateRecord) ClimateSummary {
	return ClimateSummary{
		AvgTemp:    roundTo(Average(climate, ClimateTemp), 1),
		AvgPreci:   roundTo(Average(climate, ClimatePreci), 1),
		AvgLAI:     roundTo(Average(climate, ClimateLAI), 2),
		TotalCases: int(Sum(climate, ClimateCases)),
	}
}

// MapSummary holds the outbreak map metrics.
type MapSummary struct {
	MaxCases       int `json:"maxCases"`
	TotalDistricts int `json:"totalDistricts"`
	AvgCases       int `json:"avgCases"`
}

// SummarizeMap derives the map metrics from a map collection.
func SummarizeMap(points []MapRecord) MapSummary {
	return MapSummary{
		MaxCases:       int(Max(points, MapCases)),
		TotalDistricts: len(points),
		AvgCases:       RoundedAverage(points, MapCases),
	}
}
