package live

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnavailable is returned when no provider could produce a numeric
// temperature reading. Callers treat it as "no assessment possible" and
// must not interpret transport detail beyond that.
var ErrUnavailable = errors.New("live temperature reading unavailable")

// FetchError is a structured provider failure with the upstream status
// code and message, e.g. an invalid API key rejection.
type FetchError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// TempReading is a single live temperature observation from a provider.
type TempReading struct {
	ProviderName string    `json:"provider"`
	Timestamp    time.Time `json:"timestamp"` // always UTC
	TemperatureC float64   `json:"temperatureC"`
}

// Provider abstracts a live temperature source (e.g. OpenWeatherMap, Open-Meteo).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, city string) (TempReading, error)
}
