package weather

import (
	"context"
	"time"
)

// ForecastProvider abstracts the upstream forecast source.
type ForecastProvider interface {
	Name() string
	FetchForecast(ctx context.Context, q LocationQuery, days int) (*RawForecast, error)
}

// ReportStore is the contract the in-memory store (and any future persistent
// store) must satisfy. Reports are keyed by the location query key.
type ReportStore interface {
	SaveReport(key string, r *WeatherReport)
	LatestReport(key string) (*WeatherReport, error)
	ReportRange(key string, from, to time.Time) ([]*WeatherReport, error)
}

// Sink consumes a finished report: file exports, chart rendering, time-series
// writes, chat delivery. Sink failures are per-cycle and never abort the run.
type Sink interface {
	Name() string
	Sink(ctx context.Context, r *WeatherReport) error
}
