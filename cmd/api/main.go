package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/octobees/leads-scraper/internal/auth"
	"github.com/octobees/leads-scraper/internal/config"
	"github.com/octobees/leads-scraper/internal/database"
	"github.com/octobees/leads-scraper/internal/export"
	"github.com/octobees/leads-scraper/internal/extract"
	"github.com/octobees/leads-scraper/internal/fetch"
	"github.com/octobees/leads-scraper/internal/handler"
	middlewarepkg "github.com/octobees/leads-scraper/internal/middleware"
	"github.com/octobees/leads-scraper/internal/pipeline"
	"github.com/octobees/leads-scraper/internal/proxy"
	"github.com/octobees/leads-scraper/internal/repository"
	"github.com/octobees/leads-scraper/internal/router"
	"github.com/octobees/leads-scraper/internal/scraper"
	"github.com/octobees/leads-scraper/internal/search"
	"github.com/octobees/leads-scraper/internal/service"
	"github.com/octobees/leads-scraper/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fetchOpts := fetch.Options{
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
	if len(cfg.Proxies) > 0 {
		fetchOpts.Proxies = proxy.NewPool(cfg.Proxies)
	}
	fetcher := fetch.NewClient(fetchOpts)

	searchFn, err := search.NewGoogleSearch(ctx, cfg.GoogleAPIKey, cfg.GoogleSearchEngineID)
	if err != nil {
		log.Fatalf("failed to create search client: %v", err)
	}

	snapshots, err := store.New(cfg.SnapshotDir)
	if err != nil {
		log.Fatalf("failed to create snapshot store: %v", err)
	}
	exporter, err := export.New(cfg.OutputDir, nil)
	if err != nil {
		log.Fatalf("failed to create exporter: %v", err)
	}

	pipe := pipeline.New(
		extract.New(fetcher, nil),
		search.NewResolver(searchFn, nil),
		scraper.New(fetcher, cfg.DefaultRegion, nil),
		exporter,
		snapshots,
		nil,
		nil,
		pipeline.Options{
			SearchWorkers: cfg.SearchWorkers,
			SearchDelay:   cfg.SearchDelay,
			ScrapeWorkers: cfg.ScrapeWorkers,
			ScrapeDelay:   cfg.ScrapeDelay,
		},
	)

	var recordsRepo repository.RecordsRepository
	var recordsHandler *handler.RecordsHandler
	if cfg.DatabaseURL != "" {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect database: %v", err)
		}
		defer pool.Close()

		repo := repository.NewPGXRecordsRepository(pool)
		recordsRepo = repo
		recordsHandler = handler.NewRecordsHandler(repo)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(cfg.OperatorEmail, cfg.OperatorPasswordHash, jwtManager)
	runsService := service.NewRunsService(pipe, recordsRepo, nil)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Runs:    handler.NewRunsHandler(runsService),
		Records: recordsHandler,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()
	log.Printf("listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
