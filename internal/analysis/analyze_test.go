package analysis

import (
	"math/rand"
	"testing"
	"time"
)

func TestAnalyzeCitiesMatchesPerSeries(t *testing.T) {
	byCity := map[string]Series{
		"Moscow": seriesFromTemps(10, 10, 10, 10, 10, 30),
		"Berlin": seriesFromTemps(20, 21, 19, 22, 20, 21, 20),
	}

	got, err := AnalyzeCities(byCity, 5, DefaultSigma)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for city, series := range byCity {
		want, err := AnalyzeSeries(series, 5, DefaultSigma)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got[city]) != len(want) {
			t.Fatalf("%s: expected %d points, got %d", city, len(want), len(got[city]))
		}
		for i := range want {
			if got[city][i] != want[i] {
				t.Fatalf("%s point %d: expected %+v, got %+v", city, i, want[i], got[city][i])
			}
		}
	}
}

func TestAnalyzeCitiesPropagatesError(t *testing.T) {
	byCity := map[string]Series{"Moscow": seriesFromTemps(1, 2, 3)}

	if _, err := AnalyzeCities(byCity, 0, DefaultSigma); err != ErrInvalidWindow {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestAnalyzeCitiesParallelAgrees(t *testing.T) {
	byCity := benchmarkDataset(4, 500)

	seq, err := AnalyzeCities(byCity, DefaultWindow, DefaultSigma)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	par, err := analyzeCitiesParallel(byCity, DefaultWindow, DefaultSigma)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for city := range seq {
		if len(seq[city]) != len(par[city]) {
			t.Fatalf("%s: sequential and parallel lengths differ", city)
		}
		for i := range seq[city] {
			if seq[city][i] != par[city][i] {
				t.Fatalf("%s point %d: sequential and parallel results differ", city, i)
			}
		}
	}
}

func benchmarkDataset(cities, rows int) map[string]Series {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

	byCity := make(map[string]Series, cities)
	for c := 0; c < cities; c++ {
		name := string(rune('A' + c))
		series := make(Series, 0, rows)
		for i := 0; i < rows; i++ {
			series = append(series, Reading{
				City:        name,
				Timestamp:   base.Add(time.Duration(i) * time.Hour),
				Season:      SeasonWinter,
				Temperature: 10 + rng.NormFloat64()*5,
			})
		}
		byCity[name] = series
	}
	return byCity
}

// BenchmarkAnalyzeCities compares the sequential loop against the
// goroutine fan-out. At a few thousand rows per city the sequential
// variant wins; a larger dataset is the only reason to revisit.
func BenchmarkAnalyzeCities(b *testing.B) {
	byCity := benchmarkDataset(8, 2000)

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := AnalyzeCities(byCity, DefaultWindow, DefaultSigma); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := analyzeCitiesParallel(byCity, DefaultWindow, DefaultSigma); err != nil {
				b.Fatal(err)
			}
		}
	})
}
