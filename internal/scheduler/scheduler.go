package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"weatherwatch/internal/weather"
)

// Scheduler runs the report cycle for every configured location on a cron
// schedule.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	locations []weather.LocationQuery
	cronExpr  string
	log       *zap.SugaredLogger
}

// New creates a new Scheduler driven by a standard five-field cron
// expression.
func New(locations []weather.LocationQuery, cronExpr string, service *weather.Service, log *zap.SugaredLogger) *Scheduler {
	s := gocron.NewScheduler(time.Local)
	return &Scheduler{
		scheduler: s,
		service:   service,
		locations: locations,
		cronExpr:  cronExpr,
		log:       log,
	}
}

// Start schedules the recurring job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Warn("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Cron(s.cronExpr).Do(func() {
		s.RunOnce(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// RunOnce executes one report cycle for every location concurrently. Used by
// the scheduled job and by force mode.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.log.Infow("running report cycle", "locations", len(s.locations))

	var wg sync.WaitGroup
	for _, loc := range s.locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			cycleCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
			defer cancel()

			if _, err := s.service.RunCycle(cycleCtx, loc); err != nil {
				// Skip this cycle; the next tick retries.
				s.log.Errorw("report cycle failed", "location", loc.Key(), "error", err)
			}
		}()
	}
	wg.Wait()

	s.log.Info("report cycle completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
