package live

import (
	"context"
	"fmt"
	"log"
)

// Service resolves one live temperature reading by trying providers in
// order. The fetch is the only I/O-bound step in the whole system and is
// issued synchronously, once per evaluation; fanning it out across
// providers or cities is not worth it when a single city is queried.
type Service struct {
	providers []Provider
}

// NewService creates a new Service.
func NewService(providers []Provider) *Service {
	return &Service{providers: providers}
}

// Fetch returns the first successful provider reading. When every
// provider fails, the error wraps ErrUnavailable and carries the last
// provider failure for logging; structured detail (FetchError) is
// preserved for callers that want the upstream message.
func (s *Service) Fetch(ctx context.Context, city string) (TempReading, error) {
	if len(s.providers) == 0 {
		return TempReading{}, fmt.Errorf("%w: no providers configured", ErrUnavailable)
	}

	var lastErr error
	for _, p := range s.providers {
		reading, err := p.Fetch(ctx, city)
		if err != nil {
			log.Printf("provider %s fetch failed for %s: %v", p.Name(), city, err)
			lastErr = err
			continue
		}
		return reading, nil
	}

	return TempReading{}, fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}
