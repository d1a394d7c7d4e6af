package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/temperature-analysis/internal/analysis"
)

var (
	// ErrNotFound is returned when no data is available for a given city.
	ErrNotFound = errors.New("no data for city")
)

// AssessmentRecord is one persisted live-temperature verdict.
type AssessmentRecord struct {
	ID         string                  `json:"id"`
	City       string                  `json:"city"`
	Season     analysis.Season         `json:"season"`
	Timestamp  time.Time               `json:"timestamp"` // always UTC
	Provider   string                  `json:"provider,omitempty"`
	Assessment analysis.LiveAssessment `json:"assessment"`
}

// assessmentHistory holds a time-ordered list of records for a city.
type assessmentHistory struct {
	records []AssessmentRecord
}

// MemoryStore is a concurrency-safe in-memory holder of the historical
// dataset and of recorded live assessments.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city, value: readings ordered by timestamp ascending
	series map[string]analysis.Series

	// key: city, value: assessment history
	assessments map[string]*assessmentHistory

	// retention configuration for assessments
	maxHistory int           // max number of records per city
	maxAge     time.Duration // optional max age for records
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		series:      make(map[string]analysis.Series),
		assessments: make(map[string]*assessmentHistory),
		maxHistory:  maxHistory,
		maxAge:      maxAge,
	}
}

// LoadDataset replaces the historical dataset. Readings are grouped per
// city; each city's series is kept ordered by timestamp ascending.
func (s *MemoryStore) LoadDataset(readings []analysis.Reading) {
	series := make(map[string]analysis.Series)
	for _, r := range readings {
		series[r.City] = append(series[r.City], r)
	}
	for city := range series {
		sort.SliceStable(series[city], func(i, j int) bool {
			return series[city][i].Timestamp.Before(series[city][j].Timestamp)
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.series = series
}

// Cities returns the sorted list of cities in the dataset.
func (s *MemoryStore) Cities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cities := make([]string, 0, len(s.series))
	for city := range s.series {
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return cities
}

// GetSeries returns the ordered series for a city.
func (s *MemoryStore) GetSeries(city string) (analysis.Series, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.series[city]
	if !ok || len(series) == 0 {
		return nil, ErrNotFound
	}

	out := make(analysis.Series, len(series))
	copy(out, series)
	return out, nil
}

// All returns every reading in the dataset across all cities.
func (s *MemoryStore) All() []analysis.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []analysis.Reading
	for _, series := range s.series {
		all = append(all, series...)
	}
	return all
}

// CurrentSeason returns the season of a city's most recent historical
// reading. This is the reference point live readings are compared against.
func (s *MemoryStore) CurrentSeason(city string) (analysis.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.series[city]
	if !ok || len(series) == 0 {
		return "", ErrNotFound
	}
	return series[len(series)-1].Season, nil
}

// SaveAssessment appends a record for a city and enforces retention.
func (s *MemoryStore) SaveAssessment(rec AssessmentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history, ok := s.assessments[rec.City]
	if !ok {
		history = &assessmentHistory{}
		s.assessments[rec.City] = history
	}

	history.records = append(history.records, rec)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(history.records) > s.maxHistory {
		over := len(history.records) - s.maxHistory
		history.records = history.records[over:]
	}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history.records); i++ {
			if !history.records[i].Timestamp.Before(cutoff) {
				break
			}
		}
		if i > 0 && i < len(history.records) {
			history.records = history.records[i:]
		}
	}
}

// LatestAssessment returns the most recent record for a city.
func (s *MemoryStore) LatestAssessment(city string) (AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.assessments[city]
	if !ok || len(history.records) == 0 {
		return AssessmentRecord{}, ErrNotFound
	}
	return history.records[len(history.records)-1], nil
}

// AssessmentHistory returns all recorded assessments for a city,
// oldest first.
func (s *MemoryStore) AssessmentHistory(city string) ([]AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.assessments[city]
	if !ok || len(history.records) == 0 {
		return nil, ErrNotFound
	}

	out := make([]AssessmentRecord, len(history.records))
	copy(out, history.records)
	return out, nil
}
