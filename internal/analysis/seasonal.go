package analysis

import (
	"errors"
	"math"
)

// ErrMissingSeasonalStat is returned when no aggregate exists for a
// requested (city, season) pair. Callers must surface this distinctly
// from a reading that is merely out of range.
var ErrMissingSeasonalStat = errors.New("no seasonal statistics for city and season")

// AggregateSeasons groups the entire dataset (all cities) by
// (city, season) and computes the mean and sample standard deviation of
// temperature per group. Groups with a single reading get Std 0: the
// n-1 divisor leaves sample std undefined there, and zero is the
// consistent policy rather than letting NaN leak out. Returns a fresh
// map on every call.
func AggregateSeasons(dataset []Reading) map[SeasonalKey]SeasonalStat {
	sums := make(map[SeasonalKey]float64)
	counts := make(map[SeasonalKey]int)

	for _, r := range dataset {
		key := SeasonalKey{City: r.City, Season: r.Season}
		sums[key] += r.Temperature
		counts[key]++
	}

	means := make(map[SeasonalKey]float64, len(sums))
	for key, sum := range sums {
		means[key] = sum / float64(counts[key])
	}

	sqDiffs := make(map[SeasonalKey]float64, len(sums))
	for _, r := range dataset {
		key := SeasonalKey{City: r.City, Season: r.Season}
		d := r.Temperature - means[key]
		sqDiffs[key] += d * d
	}

	stats := make(map[SeasonalKey]SeasonalStat, len(sums))
	for key, count := range counts {
		std := 0.0
		if count >= 2 {
			std = math.Sqrt(sqDiffs[key] / float64(count-1))
		}
		stats[key] = SeasonalStat{
			City:   key.City,
			Season: key.Season,
			Mean:   means[key],
			Std:    std,
			Count:  count,
		}
	}

	return stats
}

// LookupSeasonalStat resolves the aggregate for one (city, season) pair.
func LookupSeasonalStat(stats map[SeasonalKey]SeasonalStat, city string, season Season) (SeasonalStat, error) {
	stat, ok := stats[SeasonalKey{City: city, Season: season}]
	if !ok {
		return SeasonalStat{}, ErrMissingSeasonalStat
	}
	return stat, nil
}

// EvaluateLive decides whether a live temperature reading falls within
// the seasonal normal range mean ± k*std. Both bounds are inclusive, so
// a reading exactly on a bound is in range. Resolving which SeasonalStat
// applies is the caller's concern.
func EvaluateLive(temperature float64, stat SeasonalStat, k float64) (LiveAssessment, error) {
	if k < 0 {
		return LiveAssessment{}, ErrNegativeThreshold
	}

	lower := stat.Mean - k*stat.Std
	upper := stat.Mean + k*stat.Std

	return LiveAssessment{
		Temperature: temperature,
		LowerBound:  lower,
		UpperBound:  upper,
		InRange:     temperature >= lower && temperature <= upper,
	}, nil
}
