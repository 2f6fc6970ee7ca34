package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlelisefouasse/concert-tickets/internal/concert"
	"github.com/charlelisefouasse/concert-tickets/internal/config"
	"github.com/charlelisefouasse/concert-tickets/internal/export"
	"github.com/charlelisefouasse/concert-tickets/internal/handler"
	"github.com/charlelisefouasse/concert-tickets/internal/middleware"
	"github.com/charlelisefouasse/concert-tickets/internal/model"
	"github.com/charlelisefouasse/concert-tickets/internal/render"
	"github.com/charlelisefouasse/concert-tickets/internal/ticket"
)

// stubSetlist answers artist searches with one Harry Styles row and venue
// lookups with the headliner only.
func stubSetlist(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		q := r.URL.Query()
		switch {
		case q.Get("artistName") == "Harry Styles":
			_, _ = w.Write([]byte(`{"setlist":[{"id":"s1","eventDate":"13-06-2023","url":"https://www.setlist.fm/s1",
				"artist":{"mbid":"head","name":"Harry Styles"},
				"venue":{"id":"v1","name":"Wembley Stadium","city":{"name":"London"}}}]}`))
		case q.Get("venueId") == "v1" && q.Get("date") == "13-06-2023":
			_, _ = w.Write([]byte(`{"setlist":[{"id":"s1","eventDate":"13-06-2023",
				"artist":{"mbid":"head","name":"Harry Styles"},
				"venue":{"id":"v1","name":"Wembley Stadium","city":{"name":"London"}}}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newServer(t *testing.T, upstream string) (*echo.Echo, *ticket.Store) {
	t.Helper()
	log, _ := test.NewNullLogger()

	concerts := concert.New(config.SetlistConfig{BaseURL: upstream, APIKey: "test-key", Timeout: 2 * time.Second, SearchLimit: 15}, log)
	store := ticket.NewStore(concerts, log)
	renderer, err := render.NewRenderer()
	require.NoError(t, err)
	pipeline := export.NewPipeline(renderer, config.ExportConfig{WidthMM: 200, DPI: 300}, nil, log)
	limiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil, log)

	e := echo.New()
	e.Use(middleware.RequestLogger(log))
	RegisterRoutes(e)
	RegisterConcerts(e, handler.NewConcertHandler(concerts))
	RegisterTicket(e, handler.NewTicketHandler(store, renderer, pipeline, log), limiter)
	return e, store
}

func call(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	e, _ := newServer(t, stubSetlist(t).URL)

	rec := call(e, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	call(e, http.MethodGet, "/v1/concerts/search?artist=Harry+Styles", "")
	rec = call(e, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "setlist_requests_total")
}

func TestSearchSelectAndExport(t *testing.T) {
	e, store := newServer(t, stubSetlist(t).URL)

	rec := call(e, http.MethodPatch, "/v1/ticket", `{"supporting_artists":"Typed By Hand"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodGet, "/v1/concerts/search?artist=Harry+Styles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var search struct {
		Items  []model.ConcertSearchResult `json:"items"`
		Status string                      `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &search))
	require.Equal(t, "ok", search.Status)
	require.Len(t, search.Items, 1)

	selected, err := json.Marshal(search.Items[0])
	require.NoError(t, err)
	rec = call(e, http.MethodPost, "/v1/ticket/concert", string(selected))
	require.Equal(t, http.StatusOK, rec.Code)

	got := store.Get()
	assert.Equal(t, "Harry Styles", got.Artist)
	assert.Equal(t, "Wembley Stadium", got.Venue)
	assert.Equal(t, "London", got.City)
	require.NotNil(t, got.Date)
	assert.Equal(t, model.CalendarDate(2023, time.June, 13), *got.Date)
	assert.Equal(t, "", got.SupportingArtists)

	rec = call(e, http.MethodPost, "/v1/ticket/export", `{"measured_width":561}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="ticket-harry-styles-6-13-2023.png"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	dpi, ok, err := export.Density(rec.Body.Bytes())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 300, dpi)
}

func TestSearchWithoutCriteria(t *testing.T) {
	e, _ := newServer(t, stubSetlist(t).URL)
	rec := call(e, http.MethodGet, "/v1/concerts/search?artist=&city=+&date=", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"status":"empty","reason":"concert: no search criteria"}`, rec.Body.String())
}

func TestPreviewRoutes(t *testing.T) {
	e, _ := newServer(t, stubSetlist(t).URL)

	rec := call(e, http.MethodGet, "/v1/ticket/preview", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodGet, "/v1/ticket/preview.png?container_width=442", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
}
