package providers

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"weatherwatch/internal/weather"
)

// RateLimitedProvider wraps a ForecastProvider with rate limiting so that
// frequent schedules and many locations stay inside the upstream quota.
type RateLimitedProvider struct {
	provider weather.ForecastProvider
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedProvider creates a rate-limited forecast provider. rps is the
// maximum requests per second allowed (fractional values are fine for slower
// than one per second); burst is the maximum burst size.
func NewRateLimitedProvider(provider weather.ForecastProvider, rps float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [rate limited]", provider.Name()),
	}
}

func (r *RateLimitedProvider) Name() string {
	return r.name
}

// FetchForecast waits for rate limiter permission, then forwards to the
// underlying provider.
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, q weather.LocationQuery, days int) (*weather.RawForecast, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.FetchForecast(ctx, q, days)
}
