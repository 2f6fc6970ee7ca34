package concert

import (
	"context"
	"errors"
	"strings"

	"github.com/charlelisefouasse/concert-tickets/internal/model"
	"github.com/charlelisefouasse/concert-tickets/internal/monitoring"
	"github.com/charlelisefouasse/concert-tickets/internal/setlist"
)

type DetailQuery struct {
	VenueID     string `json:"venue_id" query:"venue_id"`
	DateStr     string `json:"date_str" query:"date"`
	HeadlinerID string `json:"headliner_id" query:"headliner_id"`
}

// DetailResult carries the openers of an event.  Details is only set when
// Status is StatusOK; StatusNoData means the API knows nothing about the
// venue on that date, which is different from an event without openers.
type DetailResult struct {
	Status  Status
	Details *model.ConcertDetails
	Err     error
}

func (r DetailResult) Reason() string { return reason(r.Err) }

// Details lists every act that played the venue on the given date other
// than the headliner, in upstream order.  An artist with several rows is
// listed once per row.
func (s *Service) Details(ctx context.Context, q DetailQuery) DetailResult {
	if s.api == nil {
		s.log.Warn("detail lookup skipped: no API credential")
		return DetailResult{Status: StatusFailed, Err: ErrNoCredential}
	}
	venueID := strings.TrimSpace(q.VenueID)
	dateStr := strings.TrimSpace(q.DateStr)
	if venueID == "" || dateStr == "" {
		return DetailResult{Status: StatusFailed, Err: ErrNoCriteria}
	}

	rows, err := s.api.SearchSetlists(ctx, setlist.Query{VenueID: venueID, Date: dateStr})
	if errors.Is(err, setlist.ErrNotFound) {
		monitoring.TrackSetlistRequest("details", "not_found")
		return DetailResult{Status: StatusNoData}
	}
	if err != nil {
		monitoring.TrackSetlistRequest("details", "error")
		s.log.WithError(err).WithField("venue_id", venueID).Error("failed to get concert details")
		return DetailResult{Status: StatusFailed, Err: err}
	}
	monitoring.TrackSetlistRequest("details", "ok")
	if len(rows) == 0 {
		return DetailResult{Status: StatusNoData}
	}

	return DetailResult{Status: StatusOK, Details: &model.ConcertDetails{Openers: Openers(rows, q.HeadlinerID)}}
}

// Openers returns the artist names of rows not performed by headlinerID.
func Openers(rows []setlist.Setlist, headlinerID string) []string {
	openers := []string{}
	for _, row := range rows {
		if row.Artist.MBID != headlinerID {
			openers = append(openers, row.Artist.Name)
		}
	}
	return openers
}
