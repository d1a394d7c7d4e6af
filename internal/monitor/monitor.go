package monitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/temperature-analysis/internal/analysis"
	"github.com/i474232898/temperature-analysis/internal/live"
	"github.com/i474232898/temperature-analysis/internal/store"
)

// DataStore is the contract the monitor needs from the dataset store.
type DataStore interface {
	All() []analysis.Reading
	CurrentSeason(city string) (analysis.Season, error)
	SaveAssessment(rec store.AssessmentRecord)
}

// Fetcher resolves one live temperature reading for a city.
type Fetcher interface {
	Fetch(ctx context.Context, city string) (live.TempReading, error)
}

// Monitor runs the live-temperature evaluation flow: resolve the city's
// current season, look up the seasonal baseline, fetch one live reading
// and decide whether it is within the normal range. Seasonal statistics
// are computed over the whole dataset once and cached until the dataset
// is reloaded.
type Monitor struct {
	store   DataStore
	fetcher Fetcher
	sigma   float64

	mu    sync.RWMutex
	stats map[analysis.SeasonalKey]analysis.SeasonalStat
}

// New creates a Monitor and computes the initial seasonal aggregate.
func New(dataStore DataStore, fetcher Fetcher, sigma float64) *Monitor {
	m := &Monitor{
		store:   dataStore,
		fetcher: fetcher,
		sigma:   sigma,
	}
	m.RefreshStats()
	return m
}

// RefreshStats recomputes the seasonal aggregate from the current
// dataset. Call after the dataset is reloaded.
func (m *Monitor) RefreshStats() {
	stats := analysis.AggregateSeasons(m.store.All())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = stats
}

// SeasonalStats returns the cached aggregate as a slice sorted by
// (city, season), for display.
func (m *Monitor) SeasonalStats() []analysis.SeasonalStat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := make([]analysis.SeasonalStat, 0, len(m.stats))
	for _, stat := range m.stats {
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].City != stats[j].City {
			return stats[i].City < stats[j].City
		}
		return stats[i].Season < stats[j].Season
	})
	return stats
}

// Evaluate fetches a live reading for the city, compares it against the
// seasonal baseline for the season of the city's most recent historical
// record, persists the verdict and returns it.
//
// Error kinds pass through typed so callers can distinguish them:
// store.ErrNotFound (unknown city), analysis.ErrMissingSeasonalStat
// (no baseline for the pair) and live.ErrUnavailable (no numeric
// reading could be obtained).
func (m *Monitor) Evaluate(ctx context.Context, city string) (store.AssessmentRecord, error) {
	season, err := m.store.CurrentSeason(city)
	if err != nil {
		return store.AssessmentRecord{}, err
	}

	m.mu.RLock()
	stats := m.stats
	m.mu.RUnlock()

	stat, err := analysis.LookupSeasonalStat(stats, city, season)
	if err != nil {
		return store.AssessmentRecord{}, err
	}

	reading, err := m.fetcher.Fetch(ctx, city)
	if err != nil {
		return store.AssessmentRecord{}, err
	}

	assessment, err := analysis.EvaluateLive(reading.TemperatureC, stat, m.sigma)
	if err != nil {
		return store.AssessmentRecord{}, err
	}

	rec := store.AssessmentRecord{
		ID:         uuid.NewString(),
		City:       city,
		Season:     season,
		Timestamp:  time.Now().UTC(),
		Provider:   reading.ProviderName,
		Assessment: assessment,
	}
	m.store.SaveAssessment(rec)

	return rec, nil
}
