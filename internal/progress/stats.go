// Package progress derives dashboard statistics from weight, measurement and strength samples.
// All functions are pure; callers filter out NaN and infinite values beforehand.
package progress

import (
	"slices"
	"time"
)

const msPerWeek = float64(7 * 24 * time.Hour / time.Millisecond)

type Sample struct {
	Value float64   `json:"value"`
	Time  time.Time `json:"time"`
	Note  string    `json:"note,omitempty"`
}

// SortByTime returns an ascending copy; the input is left untouched.
func SortByTime(samples []Sample) []Sample {
	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(a, b Sample) int {
		return a.Time.Compare(b.Time)
	})
	return sorted
}

func Values(samples []Sample) []float64 {
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	return values
}

// Median returns false when there are no values.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2, true
	}
	return sorted[mid], true
}

// TrendPerWeek is the least squares slope of value over time, in value units per week.
// Fewer than two samples, or samples sharing a single timestamp, give a flat trend.
func TrendPerWeek(samples []Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	sorted := SortByTime(samples)

	// x is centered on the first sample to keep the sums small
	origin := sorted[0].Time.UnixMilli()
	n := float64(len(sorted))
	var sumX, sumY float64
	for _, s := range sorted {
		sumX += float64(s.Time.UnixMilli() - origin)
		sumY += s.Value
	}
	meanX, meanY := sumX/n, sumY/n

	var num, den float64
	for _, s := range sorted {
		dx := float64(s.Time.UnixMilli()-origin) - meanX
		num += dx * (s.Value - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}

	return num / den * msPerWeek
}
