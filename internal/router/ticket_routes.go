package router

import (
	"github.com/labstack/echo/v4"

	"github.com/charlelisefouasse/concert-tickets/internal/handler"
)

// RegisterTicket registers the endpoints that edit, preview and export the
// session ticket.  limiter guards the two routes that rasterize.
func RegisterTicket(e *echo.Echo, h *handler.TicketHandler, limiter echo.MiddlewareFunc) {
	if limiter == nil {
		limiter = func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	g := e.Group("/v1/ticket")
	g.GET("", h.Get)
	g.PUT("", h.Replace)
	g.PATCH("", h.Update)
	g.POST("/reset", h.Reset)
	g.POST("/concert", h.SelectConcert)
	g.GET("/preview", h.Preview)

	g.GET("/preview.png", h.PreviewPNG, limiter)
	g.POST("/export", h.Export, limiter)
}
