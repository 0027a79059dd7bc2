package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	httpapi "clima-etl/internal/api/http"
	"clima-etl/internal/config"
	"clima-etl/internal/extract"
	"clima-etl/internal/load"
	"clima-etl/internal/logging"
	"clima-etl/internal/pipeline"
	"clima-etl/internal/scheduler"
	"clima-etl/internal/snapshot"
)

func main() {
	once := flag.Bool("once", false, "execute a single pipeline run and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogJSON)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	fetcher := extract.NewOpenWeatherFetcher(httpClient, cfg.OpenWeatherAPIKey)
	store := snapshot.NewFileStore(cfg.SnapshotPath)
	loader := load.NewMongoLoader(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)

	pipe := pipeline.New(cfg.City, fetcher, store, loader, pipeline.DefaultPolicies(), log)

	// One-shot mode for the external scheduler: exit code reflects the run's
	// terminal state.
	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if _, err := pipe.Execute(ctx); err != nil {
			os.Exit(1)
		}
		return
	}

	sched := scheduler.New(pipe, cfg.FetchInterval, log)
	if err := sched.Start(); err != nil {
		log.WithError(err).Fatal("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "clima-etl",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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

	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "clima-etl",
		})
	})

	httpapi.RegisterRoutes(app, pipe)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("fiber server stopped")
		}
	}()

	// Wait for termination signal.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Error("error during shutdown")
	}
}
