package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	httpapi "github.com/i474232898/temperature-analysis/internal/api/http"
	"github.com/i474232898/temperature-analysis/internal/config"
	"github.com/i474232898/temperature-analysis/internal/ingest"
	"github.com/i474232898/temperature-analysis/internal/live"
	"github.com/i474232898/temperature-analysis/internal/live/providers"
	"github.com/i474232898/temperature-analysis/internal/monitor"
	"github.com/i474232898/temperature-analysis/internal/scheduler"
	"github.com/i474232898/temperature-analysis/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Historical dataset, parsed and validated up front.
	readings, err := ingest.LoadFile(cfg.DatasetPath)
	if err != nil {
		log.Fatalf("failed to load dataset: %v", err)
	}

	memStore := store.NewMemoryStore(cfg.AssessmentMaxHistory, cfg.AssessmentMaxAge)
	memStore.LoadDataset(readings)
	log.Printf("loaded %d readings for %d cities from %s",
		len(readings), len(memStore.Cities()), cfg.DatasetPath)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Live temperature providers with resilience (backoff + circuit breaker).
	var provs []live.Provider
	if cfg.OpenWeatherAPIKey != "" {
		provs = append(provs, providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey))
	}
	if cfg.GeocoderAPIKey != "" {
		provs = append(provs, providers.NewOpenMeteoProvider(httpClient, cfg.GeocoderAPIKey))
	}
	if len(provs) == 0 {
		log.Println("WARN: no provider API keys configured; live assessments will be unavailable")
	}
	liveService := live.NewService(provs)

	// Monitor orchestrating seasonal baselines and live evaluation.
	mon := monitor.New(memStore, liveService, cfg.SigmaThreshold)

	// Scheduler that periodically evaluates live readings.
	cities := cfg.MonitorCities
	if len(cities) == 0 {
		cities = memStore.Cities()
	}
	sched := scheduler.New(cities, cfg.MonitorInterval, mon)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "temperature-analysis",
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
			"service": "temperature-analysis",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, memStore, mon)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
