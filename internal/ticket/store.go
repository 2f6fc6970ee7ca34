// Package ticket owns the ticket being designed in the running session.
// There is one record per process; it lives in memory and is never saved.
package ticket

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlelisefouasse/concert-tickets/internal/concert"
	"github.com/charlelisefouasse/concert-tickets/internal/model"
)

// DetailLooker resolves the supporting acts of a selected concert.
type DetailLooker interface {
	Details(ctx context.Context, q concert.DetailQuery) concert.DetailResult
}

// Defaults returns the placeholder ticket shown before the user edits
// anything.  now supplies the default date.
func Defaults(now time.Time) model.TicketData {
	today := model.CalendarDate(now.Year(), now.Month(), now.Day())
	return model.TicketData{
		Artist:             "Artist Name",
		Date:               &today,
		Venue:              "Venue",
		City:               "City",
		SupportingArtists:  "Supporting Artist",
		StartingHour:       "08:00",
		StartingHourSuffix: model.SuffixPM,
		PlaceType:          model.PlaceFloor,
		TicketType:         "General Admission",
		Price:              "$45.00",
		DisplayPlacement:   true,
	}
}

type Store struct {
	mu      sync.RWMutex
	data    model.TicketData
	details DetailLooker
	now     func() time.Time
	log     logrus.FieldLogger

	// generation changes whenever the ticket is swapped for another event,
	// so a detail lookup that finishes late cannot write its openers onto
	// a different concert.
	generation uint64
}

// NewStore creates a store holding Defaults(time.Now()).  details may be nil,
// in which case selecting a concert never touches the supporting acts.
func NewStore(details DetailLooker, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Store{details: details, now: time.Now, log: log.WithField("component", "ticket")}
	s.data = Defaults(s.now())
	return s
}

// Get returns a copy of the current ticket.
func (s *Store) Get() model.TicketData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Update applies a field-level patch.  On a validation error the stored
// ticket is left unchanged.
func (s *Store) Update(p model.TicketPatch) (model.TicketData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := p.Apply(s.data)
	if err != nil {
		return s.data.Clone(), err
	}
	s.data = next
	return s.data.Clone(), nil
}

// Replace swaps in a whole ticket, as done when loading a saved one.  The
// date is pinned to the calendar day it was written with.
func (s *Store) Replace(t model.TicketData) (model.TicketData, error) {
	if err := t.Validate(); err != nil {
		return s.Get(), err
	}
	t = t.Clone()
	if t.Date != nil {
		d := model.CalendarDate(t.Date.Year(), t.Date.Month(), t.Date.Day())
		t.Date = &d
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = t
	s.generation++
	return s.data.Clone(), nil
}

// Reset restores the placeholder ticket.
func (s *Store) Reset() model.TicketData {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = Defaults(s.now())
	s.generation++
	return s.data.Clone()
}

// SelectConcert copies a search result into the ticket, then looks up the
// event's openers and applies them:
//   - lookup ok with openers: supporting acts become the comma-joined names
//   - lookup ok without openers: supporting acts are cleared
//   - no data or failure: supporting acts are left as they were
//
// The date is taken from the upstream DD-MM-YYYY string when present, else
// from the calendar fields of Date as sent.  Either way it is stored at
// midday UTC.
//
// The lock is not held during the lookup.  Field edits made meanwhile are
// kept; if another concert was selected, or the ticket was reset or
// replaced, the late openers are dropped.
func (s *Store) SelectConcert(ctx context.Context, c model.ConcertSearchResult) (model.TicketData, concert.DetailResult) {
	date := selectionDate(c)

	s.mu.Lock()
	s.data.Artist = c.Artist
	s.data.Venue = c.Venue
	s.data.City = c.City
	s.data.Date = &date
	s.data.URL = c.URL
	s.generation++
	mine := s.generation
	s.mu.Unlock()

	if s.details == nil {
		return s.Get(), concert.DetailResult{Status: concert.StatusFailed, Err: concert.ErrNoCredential}
	}

	res := s.details.Details(ctx, concert.DetailQuery{VenueID: c.VenueID, DateStr: c.DateStr, HeadlinerID: c.ArtistID})

	s.mu.Lock()
	defer s.mu.Unlock()
	log := s.log.WithFields(logrus.Fields{
		"venue_id": c.VenueID,
		"date":     c.DateStr,
		"status":   res.Status,
	})
	if s.generation != mine {
		log.Info("ticket changed during detail lookup; openers dropped")
		return s.data.Clone(), res
	}
	switch res.Status {
	case concert.StatusOK:
		openers := []string{}
		if res.Details != nil {
			openers = res.Details.Openers
		}
		s.data.SupportingArtists = strings.Join(openers, ", ")
	default:
		log.WithField("reason", res.Reason()).Info("supporting acts left unchanged")
	}
	return s.data.Clone(), res
}

func selectionDate(c model.ConcertSearchResult) time.Time {
	if c.DateStr != "" {
		if d, err := concert.ParseAPIDate(c.DateStr); err == nil {
			return d
		}
	}
	return model.CalendarDate(c.Date.Year(), c.Date.Month(), c.Date.Day())
}
