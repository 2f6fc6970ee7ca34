package concert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlelisefouasse/concert-tickets/internal/model"
	"github.com/charlelisefouasse/concert-tickets/internal/monitoring"
	"github.com/charlelisefouasse/concert-tickets/internal/setlist"
)

// apiDateLayout is the DD-MM-YYYY format the listing API uses for dates.
const apiDateLayout = "02-01-2006"

type SearchQuery struct {
	ArtistName string `json:"artist_name" query:"artist"`
	CityName   string `json:"city_name" query:"city"`
	EventDate  string `json:"event_date" query:"date"`
}

func (q SearchQuery) blank() bool {
	return strings.TrimSpace(q.ArtistName) == "" &&
		strings.TrimSpace(q.CityName) == "" &&
		strings.TrimSpace(q.EventDate) == ""
}

type SearchResult struct {
	Status   Status
	Concerts []model.ConcertSearchResult
	Err      error
}

func (r SearchResult) Reason() string { return reason(r.Err) }

// FormatAPIDate converts a form date into DD-MM-YYYY using the calendar
// fields of the input as written.
func FormatAPIDate(raw string) (string, error) {
	d, err := model.ParseDate(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	return fmt.Sprintf("%02d-%02d-%04d", d.Day(), int(d.Month()), d.Year()), nil
}

// ParseAPIDate reads a DD-MM-YYYY string into a date anchored at 12:00 UTC.
func ParseAPIDate(s string) (time.Time, error) {
	d, err := time.Parse(apiDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return model.CalendarDate(d.Year(), d.Month(), d.Day()), nil
}

// Search looks up candidate concerts.  At least one of artist, city or date
// must be non-blank, otherwise no request is made.
func (s *Service) Search(ctx context.Context, q SearchQuery) SearchResult {
	if q.blank() {
		return SearchResult{Status: StatusEmpty, Concerts: []model.ConcertSearchResult{}, Err: ErrNoCriteria}
	}
	if s.api == nil {
		s.log.Warn("search skipped: no API credential")
		return s.failedSearch(ErrNoCredential)
	}

	query := setlist.Query{
		ArtistName: strings.TrimSpace(q.ArtistName),
		CityName:   strings.TrimSpace(q.CityName),
	}
	if strings.TrimSpace(q.EventDate) != "" {
		date, err := FormatAPIDate(q.EventDate)
		if err != nil {
			s.log.WithError(err).Warn("search skipped: bad event date")
			return s.failedSearch(err)
		}
		query.Date = date
	}

	rows, err := s.api.SearchSetlists(ctx, query)
	if errors.Is(err, setlist.ErrNotFound) {
		monitoring.TrackSetlistRequest("search", "not_found")
		monitoring.TrackSearchResults(0)
		return SearchResult{Status: StatusEmpty, Concerts: []model.ConcertSearchResult{}}
	}
	if err != nil {
		monitoring.TrackSetlistRequest("search", "error")
		s.log.WithError(err).WithField("artist", query.ArtistName).Error("failed to search setlists")
		return s.failedSearch(err)
	}
	monitoring.TrackSetlistRequest("search", "ok")

	concerts, skipped := normalize(rows, s.limit)
	if len(skipped) > 0 {
		monitoring.TrackSkippedRows(len(skipped))
		s.log.WithFields(logrus.Fields{
			"skipped": len(skipped),
			"ids":     skipped,
		}).Warn("dropped setlist rows without a usable venue or date")
	}
	monitoring.TrackSearchResults(len(concerts))
	if len(concerts) == 0 {
		return SearchResult{Status: StatusEmpty, Concerts: concerts}
	}
	return SearchResult{Status: StatusOK, Concerts: concerts}
}

func (s *Service) failedSearch(err error) SearchResult {
	return SearchResult{Status: StatusFailed, Concerts: []model.ConcertSearchResult{}, Err: err}
}

// Normalize collapses per-artist rows into one result per (venue, date),
// keeping the first row seen, and truncates to limit.  Rows without a date
// or venue, or with a date that cannot be read, are skipped.
func Normalize(rows []setlist.Setlist, limit int) []model.ConcertSearchResult {
	out, _ := normalize(rows, limit)
	return out
}

// normalize is Normalize that also returns the ids of the rows it could not
// use.
func normalize(rows []setlist.Setlist, limit int) ([]model.ConcertSearchResult, []string) {
	out := make([]model.ConcertSearchResult, 0, min(len(rows), limit))
	seen := make(map[string]struct{}, len(rows))
	var skipped []string
	for _, row := range rows {
		if len(out) >= limit {
			break
		}
		if row.EventDate == "" || row.Venue == nil {
			skipped = append(skipped, row.ID)
			continue
		}
		key := row.Venue.ID + "-" + row.EventDate
		if _, dup := seen[key]; dup {
			continue
		}
		date, err := ParseAPIDate(row.EventDate)
		if err != nil {
			skipped = append(skipped, row.ID)
			continue
		}
		seen[key] = struct{}{}

		city := ""
		if row.Venue.City != nil {
			city = row.Venue.City.Name
		}
		out = append(out, model.ConcertSearchResult{
			ID:       row.ID,
			Artist:   row.Artist.Name,
			ArtistID: row.Artist.MBID,
			Date:     date,
			Venue:    row.Venue.Name,
			VenueID:  row.Venue.ID,
			DateStr:  row.EventDate,
			City:     city,
			Openers:  []string{},
			URL:      row.URL,
		})
	}
	return out, skipped
}
