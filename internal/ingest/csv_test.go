package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/i474232898/temperature-analysis/internal/analysis"
)

func TestLoadParsesAndSorts(t *testing.T) {
	// Columns deliberately out of canonical order, rows out of time order.
	input := strings.Join([]string{
		"season,city,temperature,timestamp",
		"winter,Moscow,-5.5,2024-01-02",
		"winter,Moscow,-3.0,2024-01-01",
		"summer,Berlin,24.1,2023-07-15T12:00:00Z",
	}, "\n")

	readings, err := Load(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}

	// Sorted by city, then timestamp.
	if readings[0].City != "Berlin" {
		t.Fatalf("expected Berlin first, got %s", readings[0].City)
	}
	if readings[1].City != "Moscow" || readings[2].City != "Moscow" {
		t.Fatalf("expected Moscow rows after Berlin")
	}
	if !readings[1].Timestamp.Before(readings[2].Timestamp) {
		t.Fatalf("Moscow rows must be ordered by timestamp ascending")
	}

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !readings[1].Timestamp.Equal(want) {
		t.Fatalf("expected %v, got %v", want, readings[1].Timestamp)
	}
	if readings[1].Season != analysis.SeasonWinter {
		t.Fatalf("expected winter, got %s", readings[1].Season)
	}
	if readings[1].Temperature != -3.0 {
		t.Fatalf("expected -3.0, got %v", readings[1].Temperature)
	}
}

func TestLoadMissingColumn(t *testing.T) {
	input := "city,timestamp,temperature\nMoscow,2024-01-01,-3.0\n"

	_, err := Load(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "season") {
		t.Fatalf("expected missing-column error naming season, got %v", err)
	}
}

func TestLoadRejectsMalformedRows(t *testing.T) {
	cases := []struct {
		name string
		row  string
	}{
		{"bad temperature", "Moscow,2024-01-01,cold,winter"},
		{"bad timestamp", "Moscow,january,5.0,winter"},
		{"bad season", "Moscow,2024-01-01,5.0,monsoon"},
		{"empty city", ",2024-01-01,5.0,winter"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := "city,timestamp,temperature,season\n" + tc.row + "\n"
			_, err := Load(strings.NewReader(input))
			if err == nil {
				t.Fatalf("expected error for malformed row")
			}
			if !strings.Contains(err.Error(), "row 2") {
				t.Fatalf("expected row number in error, got %v", err)
			}
		})
	}
}

func TestLoadEmptyDataset(t *testing.T) {
	for _, input := range []string{"", "city,timestamp,temperature,season\n"} {
		_, err := Load(strings.NewReader(input))
		if !errors.Is(err, ErrEmptyDataset) {
			t.Fatalf("expected ErrEmptyDataset, got %v", err)
		}
	}
}
