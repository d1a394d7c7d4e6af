package analysis

import (
	"fmt"
	"strings"
	"time"
)

// Season is a categorical climate label attached to each reading.
type Season string

const (
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
)

// ParseSeason normalizes a raw season label. "fall" is accepted as autumn.
func ParseSeason(s string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "winter":
		return SeasonWinter, nil
	case "spring":
		return SeasonSpring, nil
	case "summer":
		return SeasonSummer, nil
	case "autumn", "fall":
		return SeasonAutumn, nil
	default:
		return "", fmt.Errorf("unknown season %q", s)
	}
}

// Reading is a single historical temperature observation.
// Readings are immutable once ingested.
type Reading struct {
	City        string    `json:"city"`
	Timestamp   time.Time `json:"timestamp"` // always UTC
	Season      Season    `json:"season"`
	Temperature float64   `json:"temperatureC"`
}

// Series is one city's readings ordered by Timestamp ascending.
// Order is significant: rolling statistics are position-dependent.
type Series []Reading

// BaselinePoint is the rolling statistic derived for one reading.
// Defined is false for the first window-1 positions of a series,
// where there is not enough history; such points are never anomalous.
type BaselinePoint struct {
	MovingMean float64 `json:"movingMean"`
	MovingStd  float64 `json:"movingStd"`
	Defined    bool    `json:"defined"`
	IsAnomaly  bool    `json:"isAnomaly"`
}

// SeasonalKey identifies one (city, season) group in the aggregate.
type SeasonalKey struct {
	City   string `json:"city"`
	Season Season `json:"season"`
}

// SeasonalStat is the climatological baseline for one (city, season)
// pair, computed over the entire dataset rather than a single slice.
type SeasonalStat struct {
	City   string  `json:"city"`
	Season Season  `json:"season"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Count  int     `json:"count"`
}

// LiveAssessment is the verdict on one live temperature reading
// against a seasonal baseline. Bounds are mean ± k*std, inclusive.
type LiveAssessment struct {
	Temperature float64 `json:"temperatureC"`
	LowerBound  float64 `json:"lowerBound"`
	UpperBound  float64 `json:"upperBound"`
	InRange     bool    `json:"inRange"`
}
