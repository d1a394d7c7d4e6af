package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/temperature-analysis/internal/analysis"
	"github.com/i474232898/temperature-analysis/internal/live"
	"github.com/i474232898/temperature-analysis/internal/store"
)

type stubFetcher struct {
	reading live.TempReading
	err     error
}

func (s *stubFetcher) Fetch(ctx context.Context, city string) (live.TempReading, error) {
	if s.err != nil {
		return live.TempReading{}, s.err
	}
	return s.reading, nil
}

func newTestStore() *store.MemoryStore {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := store.NewMemoryStore(0, 0)
	s.LoadDataset([]analysis.Reading{
		// Moscow winter: mean 15, sample std 3 over [12, 15, 18].
		{City: "Moscow", Timestamp: base, Season: analysis.SeasonWinter, Temperature: 12},
		{City: "Moscow", Timestamp: base.Add(24 * time.Hour), Season: analysis.SeasonWinter, Temperature: 15},
		{City: "Moscow", Timestamp: base.Add(48 * time.Hour), Season: analysis.SeasonWinter, Temperature: 18},
	})
	return s
}

func TestEvaluateInRange(t *testing.T) {
	st := newTestStore()
	fetcher := &stubFetcher{reading: live.TempReading{ProviderName: "stub", TemperatureC: 21}}
	m := New(st, fetcher, 2)

	rec, err := m.Evaluate(context.Background(), "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.ID == "" {
		t.Fatalf("expected a record ID")
	}
	if rec.Season != analysis.SeasonWinter {
		t.Fatalf("expected winter, got %s", rec.Season)
	}
	a := rec.Assessment
	if a.LowerBound != 9 || a.UpperBound != 21 {
		t.Fatalf("expected bounds [9,21], got [%v,%v]", a.LowerBound, a.UpperBound)
	}
	if !a.InRange {
		t.Fatalf("reading on the upper bound must be in range")
	}

	// The verdict must be persisted.
	latest, err := st.LatestAssessment("Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.ID != rec.ID {
		t.Fatalf("expected persisted record %s, got %s", rec.ID, latest.ID)
	}
}

func TestEvaluateOutOfRange(t *testing.T) {
	m := New(newTestStore(), &stubFetcher{reading: live.TempReading{TemperatureC: 21.01}}, 2)

	rec, err := m.Evaluate(context.Background(), "Moscow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Assessment.InRange {
		t.Fatalf("reading above the upper bound must be out of range")
	}
}

func TestEvaluateUnknownCity(t *testing.T) {
	m := New(newTestStore(), &stubFetcher{}, 2)

	_, err := m.Evaluate(context.Background(), "Paris")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestEvaluateFetchUnavailable(t *testing.T) {
	m := New(newTestStore(), &stubFetcher{err: live.ErrUnavailable}, 2)

	_, err := m.Evaluate(context.Background(), "Moscow")
	if !errors.Is(err, live.ErrUnavailable) {
		t.Fatalf("expected live.ErrUnavailable, got %v", err)
	}
}

func TestEvaluateMissingSeasonalStatAfterReload(t *testing.T) {
	st := newTestStore()
	m := New(st, &stubFetcher{reading: live.TempReading{TemperatureC: 15}}, 2)

	// Reload the dataset so Moscow's latest season has no aggregate in
	// the stale cache, then refresh and evaluate: the newest season wins.
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	st.LoadDataset([]analysis.Reading{
		{City: "Moscow", Timestamp: base, Season: analysis.SeasonSummer, Temperature: 22},
		{City: "Moscow", Timestamp: base.Add(24 * time.Hour), Season: analysis.SeasonSummer, Temperature: 24},
	})

	// Stale cache still has only winter stats.
	if _, err := m.Evaluate(context.Background(), "Moscow"); !errors.Is(err, analysis.ErrMissingSeasonalStat) {
		t.Fatalf("expected ErrMissingSeasonalStat with stale cache, got %v", err)
	}

	m.RefreshStats()
	rec, err := m.Evaluate(context.Background(), "Moscow")
	if err != nil {
		t.Fatalf("unexpected error after refresh: %v", err)
	}
	if rec.Season != analysis.SeasonSummer {
		t.Fatalf("expected summer after reload, got %s", rec.Season)
	}
}

func TestSeasonalStatsSorted(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	st := store.NewMemoryStore(0, 0)
	st.LoadDataset([]analysis.Reading{
		{City: "Moscow", Timestamp: base, Season: analysis.SeasonWinter, Temperature: -5},
		{City: "Berlin", Timestamp: base, Season: analysis.SeasonWinter, Temperature: 2},
		{City: "Berlin", Timestamp: base, Season: analysis.SeasonAutumn, Temperature: 9},
	})
	m := New(st, &stubFetcher{}, 2)

	stats := m.SeasonalStats()
	if len(stats) != 3 {
		t.Fatalf("expected 3 stats, got %d", len(stats))
	}
	if stats[0].City != "Berlin" || stats[0].Season != analysis.SeasonAutumn {
		t.Fatalf("expected Berlin/autumn first, got %s/%s", stats[0].City, stats[0].Season)
	}
	if stats[2].City != "Moscow" {
		t.Fatalf("expected Moscow last, got %s", stats[2].City)
	}
}
