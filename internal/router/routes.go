package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-scraper/internal/auth"
	"github.com/octobees/leads-scraper/internal/config"
	"github.com/octobees/leads-scraper/internal/handler"
	middlewarepkg "github.com/octobees/leads-scraper/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Runs    *handler.RunsHandler
	Records *handler.RecordsHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	secured.POST("/runs", handlers.Runs.Start, middlewarepkg.RunsRateLimiter(cfg.RateLimitRuns))
	secured.GET("/runs", handlers.Runs.List)
	secured.GET("/runs/:id", handlers.Runs.Get)

	if handlers.Records != nil {
		secured.GET("/records", handlers.Records.List)
	}
}
