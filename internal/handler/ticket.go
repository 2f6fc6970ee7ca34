package handler

import (
    "bytes"
    "context"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"

    "github.com/disintegration/imaging"
    "github.com/labstack/echo/v4"
    "github.com/sirupsen/logrus"

    "github.com/charlelisefouasse/concert-tickets/internal/concert"
    "github.com/charlelisefouasse/concert-tickets/internal/export"
    "github.com/charlelisefouasse/concert-tickets/internal/middleware"
    "github.com/charlelisefouasse/concert-tickets/internal/model"
    "github.com/charlelisefouasse/concert-tickets/internal/render"
    "github.com/charlelisefouasse/concert-tickets/internal/ticket"
)

// Exporter is implemented by export.Pipeline.
type Exporter interface {
    Export(ctx context.Context, t model.TicketData, opts export.Options) (*export.Artifact, error)
}

type TicketHandler struct {
    Store    *ticket.Store
    Raster   export.Rasterizer
    Exporter Exporter
    Log      logrus.FieldLogger
}

func NewTicketHandler(store *ticket.Store, raster export.Rasterizer, exporter Exporter, log logrus.FieldLogger) *TicketHandler {
    return &TicketHandler{Store: store, Raster: raster, Exporter: exporter, Log: log}
}

func (h *TicketHandler) Get(c echo.Context) error {
    return c.JSON(http.StatusOK, h.Store.Get())
}

// Update applies a partial JSON body.  Unknown enum values are rejected and
// leave the ticket unchanged.
func (h *TicketHandler) Update(c echo.Context) error {
    var p model.TicketPatch
    if err := c.Bind(&p); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    t, err := h.Store.Update(p)
    if err != nil {
        if errors.Is(err, model.ErrValidation) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_ticket", "message": err.Error()})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusOK, t)
}

// Replace swaps in a whole ticket, e.g. one saved by the client earlier.
func (h *TicketHandler) Replace(c echo.Context) error {
    var t model.TicketData
    if err := c.Bind(&t); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    out, err := h.Store.Replace(t)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_ticket", "message": err.Error()})
    }
    return c.JSON(http.StatusOK, out)
}

func (h *TicketHandler) Reset(c echo.Context) error {
    return c.JSON(http.StatusOK, h.Store.Reset())
}

// SelectConcert copies a search result into the ticket and resolves its
// supporting acts.  The result may carry the date as RFC 3339 in "date" or
// only as the upstream DD-MM-YYYY string in "date_str".
func (h *TicketHandler) SelectConcert(c echo.Context) error {
    var sel model.ConcertSearchResult
    if err := c.Bind(&sel); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    if sel.Date.IsZero() {
        d, err := concert.ParseAPIDate(sel.DateStr)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "concert date is required"})
        }
        sel.Date = d
    }
    t, res := h.Store.SelectConcert(c.Request().Context(), sel)
    return c.JSON(http.StatusOK, echo.Map{
        "ticket":  t,
        "details": detailBody(res),
    })
}

// Preview returns what the preview draws, scaled for an optional container.
func (h *TicketHandler) Preview(c echo.Context) error {
    scale, err := containerScale(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "view":  render.NewView(h.Store.Get()),
        "scale": scale,
        "width": render.CSSWidth(scale),
    })
}

// PreviewPNG draws the ticket at on-screen size.  This image carries no
// density metadata; use Export for print.
func (h *TicketHandler) PreviewPNG(c echo.Context) error {
    if h.Raster == nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "renderer unavailable"})
    }
    scale, err := containerScale(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    img, err := h.Raster.Render(render.NewView(h.Store.Get()), render.CSSWidth(scale))
    if err != nil {
        middleware.Logger(c, h.Log).WithError(err).Error("preview render failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "preview_failed", "message": err.Error()})
    }
    var buf bytes.Buffer
    if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "preview_failed", "message": err.Error()})
    }
    c.Response().Header().Set("Cache-Control", "no-store")
    return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// Export produces the print file as a download.  A failed export is
// reported to the caller instead of silently producing nothing.
func (h *TicketHandler) Export(c echo.Context) error {
    var opts export.Options
    if err := c.Bind(&opts); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid JSON body"})
    }
    art, err := h.Exporter.Export(c.Request().Context(), h.Store.Get(), opts)
    switch {
    case errors.Is(err, export.ErrInvalidOptions):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_export_options", "message": err.Error()})
    case errors.Is(err, export.ErrBusy):
        return c.JSON(http.StatusConflict, echo.Map{"error": "export_in_progress", "message": err.Error()})
    case err != nil:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "export_failed", "message": err.Error()})
    }

    hdr := c.Response().Header()
    hdr.Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", art.Filename))
    hdr.Set("X-Export-ID", art.ID)
    hdr.Set("X-Export-DPI", strconv.Itoa(art.DPI))
    return c.Blob(http.StatusOK, "image/png", art.Data)
}

func containerScale(c echo.Context) (float64, error) {
    raw := strings.TrimSpace(c.QueryParam("container_width"))
    if raw == "" {
        return 1, nil
    }
    w, err := strconv.ParseFloat(raw, 64)
    if err != nil {
        return 0, errors.New("container_width must be a number")
    }
    return render.PreviewScale(w), nil
}
