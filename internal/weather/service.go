package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service orchestrates one report cycle per location: fetch the raw forecast,
// window it, compose the report, persist it, and fan it out to the sinks.
type Service struct {
	provider ForecastProvider
	windower *Windower
	store    ReportStore
	sinks    []Sink
	days     int
	recovery RecoveryMode
	log      *zap.SugaredLogger
}

// ServiceConfig bundles the collaborators and knobs for a Service.
type ServiceConfig struct {
	Provider ForecastProvider
	Windower *Windower
	Store    ReportStore
	Sinks    []Sink
	// Days is the forecast depth requested from the provider.
	Days int
	// Recovery selects the frost recovery reporting mode.
	Recovery RecoveryMode
	Logger   *zap.SugaredLogger
}

func NewService(cfg ServiceConfig) *Service {
	days := cfg.Days
	if days <= 0 {
		days = 2
	}
	return &Service{
		provider: cfg.Provider,
		windower: cfg.Windower,
		store:    cfg.Store,
		sinks:    cfg.Sinks,
		days:     days,
		recovery: cfg.Recovery,
		log:      cfg.Logger,
	}
}

// RunCycle executes one full cycle for the given location. Provider and
// windowing failures abort the cycle so the scheduler can retry on the next
// tick; sink failures are logged and do not.
func (s *Service) RunCycle(ctx context.Context, q LocationQuery) (*WeatherReport, error) {
	raw, err := s.provider.FetchForecast(ctx, q, s.days)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %s: %w", q.Key(), err)
	}

	seq, err := s.windower.Window(raw)
	if err != nil {
		return nil, fmt.Errorf("window forecast for %s: %w", q.Key(), err)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("window for %s: %w", q.Key(), ErrEmptySequence)
	}

	report, err := ComposeReport(seq, raw.LocationOf(q.ZipCode), ReportOptions{Recovery: s.recovery})
	if err != nil {
		return nil, fmt.Errorf("compose report for %s: %w", q.Key(), err)
	}

	s.store.SaveReport(q.Key(), report)

	var wg sync.WaitGroup
	for _, sink := range s.sinks {
		sink := sink
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := sink.Sink(ctx, report); err != nil {
				// Log and continue; one failing sink must not starve the rest.
				s.log.Errorw("sink failed", "sink", sink.Name(), "location", q.Key(), "error", err)
				return
			}
			s.log.Debugw("sink done", "sink", sink.Name(), "location", q.Key())
		}()
	}
	wg.Wait()

	return report, nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(q LocationQuery) (*WeatherReport, error) {
	return s.store.LatestReport(q.Key())
}

// Range delegates to the underlying store.
func (s *Service) Range(q LocationQuery, from, to time.Time) ([]*WeatherReport, error) {
	return s.store.ReportRange(q.Key(), from, to)
}
