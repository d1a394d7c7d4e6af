package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/temperature-analysis/internal/analysis"
)

// ErrEmptyDataset is returned when the CSV contains a header but no rows.
var ErrEmptyDataset = errors.New("dataset contains no readings")

// required header columns; order in the file does not matter.
var requiredColumns = []string{"city", "timestamp", "temperature", "season"}

// LoadFile reads a historical temperature dataset from a CSV file.
func LoadFile(path string) ([]analysis.Reading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Load parses CSV rows with columns city, timestamp, temperature and
// season into readings sorted by (city, timestamp). Malformed rows are
// rejected with their row number; nothing partial reaches the caller.
func Load(r io.Reader) ([]analysis.Reading, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var readings []analysis.Reading
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		reading, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		readings = append(readings, reading)
	}

	if len(readings) == 0 {
		return nil, ErrEmptyDataset
	}

	// Rolling statistics depend on per-city timestamp order.
	sort.SliceStable(readings, func(i, j int) bool {
		if readings[i].City != readings[j].City {
			return readings[i].City < readings[j].City
		}
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})

	return readings, nil
}

func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (analysis.Reading, error) {
	get := func(name string) (string, error) {
		idx := cols[name]
		if idx >= len(record) {
			return "", fmt.Errorf("missing value for column %q", name)
		}
		return strings.TrimSpace(record[idx]), nil
	}

	city, err := get("city")
	if err != nil {
		return analysis.Reading{}, err
	}
	if city == "" {
		return analysis.Reading{}, errors.New("empty city")
	}

	tsRaw, err := get("timestamp")
	if err != nil {
		return analysis.Reading{}, err
	}
	ts, err := parseTimestamp(tsRaw)
	if err != nil {
		return analysis.Reading{}, err
	}

	tempRaw, err := get("temperature")
	if err != nil {
		return analysis.Reading{}, err
	}
	temp, err := strconv.ParseFloat(tempRaw, 64)
	if err != nil {
		return analysis.Reading{}, fmt.Errorf("invalid temperature %q", tempRaw)
	}

	seasonRaw, err := get("season")
	if err != nil {
		return analysis.Reading{}, err
	}
	season, err := analysis.ParseSeason(seasonRaw)
	if err != nil {
		return analysis.Reading{}, err
	}

	return analysis.Reading{
		City:        city,
		Timestamp:   ts,
		Season:      season,
		Temperature: temp,
	}, nil
}

// parseTimestamp accepts RFC3339 or a bare date.
func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts.UTC(), nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q; use RFC3339 or YYYY-MM-DD", s)
}
