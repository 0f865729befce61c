package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "weatherwatch/internal/api/http"
	"weatherwatch/internal/config"
	"weatherwatch/internal/logging"
	"weatherwatch/internal/scheduler"
	"weatherwatch/internal/sink"
	"weatherwatch/internal/store"
	"weatherwatch/internal/weather"
	"weatherwatch/internal/weather/providers"
)

func main() {
	force := flag.Bool("force", false, "run one report cycle immediately and exit")
	flag.Parse()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// In-memory report store with configured retention.
	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Forecast provider with resilience (backoff + circuit breaker), wrapped
	// with rate limiting.
	var provider weather.ForecastProvider = providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
	provider = providers.NewRateLimitedProvider(provider, cfg.ProviderRPS, cfg.ProviderBurst)

	// Sinks. The chart sink is shared with the Telegram sink so the photo
	// reuses the memoized rendering.
	chartSink := sink.NewChartSink(cfg.OutDir)
	sinks := []weather.Sink{
		sink.NewStatsJSONSink(cfg.OutDir),
		sink.NewObservationCSVSink(cfg.OutDir),
		chartSink,
	}
	if cfg.InfluxAddr != "" {
		influxSink, err := sink.NewInfluxSink(sink.InfluxConfig{
			Addr:     cfg.InfluxAddr,
			Username: cfg.InfluxUsername,
			Password: cfg.InfluxPassword,
			Database: cfg.InfluxDatabase,
		})
		if err != nil {
			zlog.Fatalw("failed to create InfluxDB sink", "error", err)
		}
		defer influxSink.Close()
		sinks = append(sinks, influxSink)
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 && !cfg.SkipTelegram {
		tgSink, err := sink.NewTelegramSink(cfg.TelegramToken, cfg.TelegramChatID, chartSink)
		if err != nil {
			zlog.Fatalw("failed to create Telegram sink", "error", err)
		}
		sinks = append(sinks, tgSink)
	} else {
		zlog.Warn("telegram delivery disabled")
	}

	recovery := weather.RecoveryCompat
	if cfg.RecoveryCorrected {
		recovery = weather.RecoveryCorrected
	}

	// Core service orchestrating provider, windowing, composition, store and
	// sinks.
	service := weather.NewService(weather.ServiceConfig{
		Provider: provider,
		Windower: weather.NewWindower(cfg.MaxHours),
		Store:    memStore,
		Sinks:    sinks,
		Days:     cfg.ForecastDays,
		Recovery: recovery,
		Logger:   zlog,
	})

	sched := scheduler.New(cfg.Locations, cfg.CronSchedule, service, zlog)

	if *force {
		zlog.Warn("force mode, skipping cron")
		sched.RunOnce(context.Background())
		return
	}

	if err := sched.Start(); err != nil {
		zlog.Fatalw("failed to start scheduler", "error", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weatherwatch",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weatherwatch",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Errorw("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Errorw("error during shutdown", "error", err)
	}
}
