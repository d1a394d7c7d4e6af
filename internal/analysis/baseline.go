package analysis

import (
	"errors"
	"math"
)

const (
	// DefaultWindow is the trailing window size for rolling statistics.
	DefaultWindow = 30

	// DefaultSigma is the anomaly threshold in standard deviations.
	// Kept as a named constant so future tuning does not chase inlined 2s.
	DefaultSigma = 2.0
)

var (
	// ErrInvalidWindow is returned when the rolling window is < 1.
	ErrInvalidWindow = errors.New("rolling window must be >= 1")

	// ErrNegativeThreshold is returned when the sigma multiplier k is < 0.
	ErrNegativeThreshold = errors.New("sigma threshold must be >= 0")

	// ErrLengthMismatch is returned when a series and its baseline
	// do not align position for position.
	ErrLengthMismatch = errors.New("series and baseline lengths differ")
)

// ComputeBaseline derives a rolling mean and sample standard deviation
// (Bessel-corrected, divisor n-1) for each reading over the trailing
// window. The result aligns 1:1 with the input. The first window-1
// points carry no statistic (Defined=false). An empty series yields an
// empty result rather than an error. Pure function of its input.
func ComputeBaseline(series Series, window int) ([]BaselinePoint, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}

	points := make([]BaselinePoint, len(series))
	for i := range series {
		if i < window-1 {
			continue // insufficient history, stays undefined
		}

		mean, std := windowStats(series[i-window+1 : i+1])
		points[i] = BaselinePoint{
			MovingMean: mean,
			MovingStd:  std,
			Defined:    true,
		}
	}

	return points, nil
}

// windowStats computes the arithmetic mean and sample standard
// deviation of the temperatures in the slice. A single-sample window
// has std 0 (the n-1 divisor leaves it undefined by formula).
func windowStats(window Series) (mean, std float64) {
	n := float64(len(window))

	var sum float64
	for _, r := range window {
		sum += r.Temperature
	}
	mean = sum / n

	if len(window) < 2 {
		return mean, 0
	}

	var sqDiff float64
	for _, r := range window {
		d := r.Temperature - mean
		sqDiff += d * d
	}
	return mean, math.Sqrt(sqDiff / (n - 1))
}

// Classify flags each reading whose temperature lies strictly outside
// [mean-k*std, mean+k*std] of its rolling baseline. Values exactly on a
// bound are not anomalous. Points with an undefined baseline are never
// flagged: there is no statistical basis for early-window positions.
// k=0 is a valid degenerate case where any deviation is anomalous.
func Classify(series Series, baseline []BaselinePoint, k float64) ([]bool, error) {
	if k < 0 {
		return nil, ErrNegativeThreshold
	}
	if len(series) != len(baseline) {
		return nil, ErrLengthMismatch
	}

	flags := make([]bool, len(series))
	for i, bp := range baseline {
		if !bp.Defined {
			continue
		}
		t := series[i].Temperature
		flags[i] = t > bp.MovingMean+k*bp.MovingStd || t < bp.MovingMean-k*bp.MovingStd
	}

	return flags, nil
}

// AnalyzeSeries runs ComputeBaseline and Classify in one pass and
// returns baseline points with IsAnomaly filled in.
func AnalyzeSeries(series Series, window int, k float64) ([]BaselinePoint, error) {
	points, err := ComputeBaseline(series, window)
	if err != nil {
		return nil, err
	}

	flags, err := Classify(series, points, k)
	if err != nil {
		return nil, err
	}

	for i := range points {
		points[i].IsAnomaly = flags[i]
	}
	return points, nil
}
