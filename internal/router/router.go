// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/charlelisefouasse/concert-tickets/internal/handler"
)

// RegisterRoutes registers the operational endpoints: the liveness probe and
// the prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterConcerts registers the concert search and detail lookup.  These
// are not rate limited here; the listing API enforces its own quota.
func RegisterConcerts(e *echo.Echo, h *handler.ConcertHandler) {
	g := e.Group("/v1/concerts")
	g.GET("/search", h.Search)
	g.GET("/details", h.Details)
}
