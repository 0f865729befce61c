package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"weatherwatch/internal/weather"
)

// WeatherAPIProvider fetches hourly forecasts from WeatherAPI.com's
// forecast.json endpoint, the payload shape the windowing step consumes.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "weatherapi",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, q weather.LocationQuery, days int) (*weather.RawForecast, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi api key is not configured")
	}
	if days <= 0 {
		days = 2
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for the location; ZIP, "lat,lon" and
		// "city,country" are all accepted.
		values.Set("q", q.Query())
		values.Set("days", strconv.Itoa(days))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload weather.RawForecast
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
