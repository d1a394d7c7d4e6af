package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/i474232898/temperature-analysis/internal/live"
	"github.com/kelvins/geocoder"
	"github.com/sony/gobreaker"
)

// OpenMeteoProvider implements the live.Provider interface for Open-Meteo.
// Open-Meteo requires coordinates, so city names are resolved through the
// Google geocoding API and cached for the process lifetime.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	geoMu    sync.Mutex
	geoCache map[string]geocoder.Location
}

func NewOpenMeteoProvider(client *http.Client, geocoderAPIKey string) *OpenMeteoProvider {
	geocoder.ApiKey = geocoderAPIKey

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1/forecast",
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: defaultBackoff(),
		},
		circuit:  newCircuit("openmeteo"),
		geoCache: make(map[string]geocoder.Location),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Fetch(ctx context.Context, city string) (live.TempReading, error) {
	loc, err := p.resolve(city)
	if err != nil {
		return live.TempReading{}, fmt.Errorf("geocode %s: %w", city, err)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%f", loc.Latitude))
		values.Set("longitude", fmt.Sprintf("%f", loc.Longitude))
		values.Set("current_weather", "true")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return live.TempReading{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			Time        string  `json:"time"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return live.TempReading{}, err
	}

	ts, err := time.Parse(time.RFC3339, payload.CurrentWeather.Time)
	if err != nil {
		ts = time.Now().UTC()
	} else {
		ts = ts.UTC()
	}

	return live.TempReading{
		ProviderName: p.name,
		Timestamp:    ts,
		TemperatureC: payload.CurrentWeather.Temperature,
	}, nil
}

// resolve geocodes a city name, serving repeats from the cache.
func (p *OpenMeteoProvider) resolve(city string) (geocoder.Location, error) {
	p.geoMu.Lock()
	defer p.geoMu.Unlock()

	if loc, ok := p.geoCache[city]; ok {
		return loc, nil
	}

	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	if err != nil {
		return geocoder.Location{}, err
	}

	p.geoCache[city] = loc
	return loc, nil
}
