package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/charlelisefouasse/concert-tickets/internal/concert"
    "github.com/charlelisefouasse/concert-tickets/internal/model"
)

// ConcertFinder is implemented by concert.Service.
type ConcertFinder interface {
    Search(ctx context.Context, q concert.SearchQuery) concert.SearchResult
    Details(ctx context.Context, q concert.DetailQuery) concert.DetailResult
}

type ConcertHandler struct {
    Concerts ConcertFinder
}

func NewConcertHandler(f ConcertFinder) *ConcertHandler { return &ConcertHandler{Concerts: f} }

// Search always answers 200.  Upstream trouble shows up as status "failed"
// with an empty item list, never as an HTTP error.
func (h *ConcertHandler) Search(c echo.Context) error {
    q := concert.SearchQuery{
        ArtistName: strings.TrimSpace(c.QueryParam("artist")),
        CityName:   strings.TrimSpace(c.QueryParam("city")),
        EventDate:  strings.TrimSpace(c.QueryParam("date")),
    }
    res := h.Concerts.Search(c.Request().Context(), q)
    items := res.Concerts
    if items == nil {
        items = []model.ConcertSearchResult{}
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items":  items,
        "status": res.Status,
        "reason": res.Reason(),
    })
}

// Details answers 200 with the openers of one event.  "no_data" and
// "failed" carry an empty list.
func (h *ConcertHandler) Details(c echo.Context) error {
    q := concert.DetailQuery{
        VenueID:     strings.TrimSpace(c.QueryParam("venue_id")),
        DateStr:     strings.TrimSpace(c.QueryParam("date")),
        HeadlinerID: strings.TrimSpace(c.QueryParam("headliner_id")),
    }
    return c.JSON(http.StatusOK, detailBody(h.Concerts.Details(c.Request().Context(), q)))
}

func detailBody(res concert.DetailResult) echo.Map {
    openers := []string{}
    if res.Details != nil && res.Details.Openers != nil {
        openers = res.Details.Openers
    }
    return echo.Map{
        "status":  res.Status,
        "reason":  res.Reason(),
        "openers": openers,
    }
}
