package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/stargazing-finder/internal/api/http"
	"github.com/i474232898/stargazing-finder/internal/catalog"
	"github.com/i474232898/stargazing-finder/internal/config"
	"github.com/i474232898/stargazing-finder/internal/finder"
	"github.com/i474232898/stargazing-finder/internal/geocode"
	"github.com/i474232898/stargazing-finder/internal/metrics"
	"github.com/i474232898/stargazing-finder/internal/scheduler"
	"github.com/i474232898/stargazing-finder/internal/store"
	"github.com/i474232898/stargazing-finder/internal/weather"
	"github.com/i474232898/stargazing-finder/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	collector := metrics.NewCollector("stargazing")

	// Snapshot cache in front of the provider.
	memStore := store.NewMemoryStore(cfg.CacheTTL)
	provider := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey,
		providers.WithLanguage(cfg.WeatherLang))
	service := weather.NewService(memStore, provider, collector)

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}
	f, err := finder.New(cat, service, cfg.FinderOptions(), collector)
	if err != nil {
		log.Fatalf("failed to build finder: %v", err)
	}
	log.Printf("INFO: catalog %q loaded with %d sites, model %s", cat.Name, len(cat.Sites), cfg.Model)

	// Scheduler that periodically drops expired snapshots.
	sched := scheduler.New(memStore, cfg.CachePurgeInterval, collector)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "stargazing-finder",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// A search may fetch every site in scope.
		WriteTimeout: 60 * time.Second,
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

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "stargazing-finder",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	// API routes.
	httpapi.RegisterRoutes(app, f, geocode.NewLocator(cfg.GeocoderAPIKey), httpapi.Options{
		HourlyHours: cfg.HourlyHours,
	})

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
