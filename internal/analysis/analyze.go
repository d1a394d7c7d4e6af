package analysis

import "sync"

// AnalyzeCities runs the rolling baseline and anomaly classification for
// every city's series, sequentially. Per-city analysis is embarrassingly
// parallel, but fanning out goroutines was benchmarked slower than this
// loop at typical dataset sizes (a few thousand rows per city) because
// the scheduling overhead outweighs the per-series compute; see
// BenchmarkAnalyzeCities. Any future parallel path must be gated on
// dataset size and re-benchmarked, not assumed faster.
func AnalyzeCities(byCity map[string]Series, window int, k float64) (map[string][]BaselinePoint, error) {
	results := make(map[string][]BaselinePoint, len(byCity))
	for city, series := range byCity {
		points, err := AnalyzeSeries(series, window, k)
		if err != nil {
			return nil, err
		}
		results[city] = points
	}
	return results, nil
}

// analyzeCitiesParallel is the rejected fan-out variant, kept only for
// the benchmark that documents why the sequential loop wins.
func analyzeCitiesParallel(byCity map[string]Series, window int, k float64) (map[string][]BaselinePoint, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	results := make(map[string][]BaselinePoint, len(byCity))
	for city, series := range byCity {
		city, series := city, series
		wg.Add(1)
		go func() {
			defer wg.Done()

			points, err := AnalyzeSeries(series, window, k)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[city] = points
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
