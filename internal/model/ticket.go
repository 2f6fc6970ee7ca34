package model

import (
    "fmt"
    "strings"
    "time"
)

// PlaceType tells whether the holder has a numbered seat or a floor spot.
type PlaceType string

const (
    PlaceSeat  PlaceType = "seat"
    PlaceFloor PlaceType = "floor"
)

func (p PlaceType) Valid() bool { return p == PlaceSeat || p == PlaceFloor }

// HourSuffix qualifies StartingHour.  24h hides the suffix on the ticket.
type HourSuffix string

const (
    SuffixAM  HourSuffix = "AM"
    SuffixPM  HourSuffix = "PM"
    Suffix24h HourSuffix = "24h"
)

func (s HourSuffix) Valid() bool { return s == SuffixAM || s == SuffixPM || s == Suffix24h }

// TicketData describes one souvenir ticket.  It is the single record both
// the form and the preview read from.
//
// Section, Row and SeatNumber are only meaningful when PlaceType is seat, and
// nothing about placement is rendered when DisplayPlacement is false.  Those
// fields are kept as entered either way so toggling restores them.
type TicketData struct {
    Artist             string     `json:"artist" yaml:"artist"`
    Date               *time.Time `json:"date" yaml:"date,omitempty"`
    Venue              string     `json:"venue" yaml:"venue"`
    City               string     `json:"city" yaml:"city"`
    SupportingArtists  string     `json:"supporting_artists" yaml:"supporting_artists"`
    StartingHour       string     `json:"starting_hour" yaml:"starting_hour"`
    StartingHourSuffix HourSuffix `json:"starting_hour_suffix" yaml:"starting_hour_suffix"`
    PlaceType          PlaceType  `json:"place_type" yaml:"place_type"`
    Section            string     `json:"section" yaml:"section"`
    Row                string     `json:"row" yaml:"row"`
    SeatNumber         string     `json:"seat_number" yaml:"seat_number"`
    TicketType         string     `json:"ticket_type" yaml:"ticket_type"`
    Price              string     `json:"price" yaml:"price"`
    DisplayPlacement   bool       `json:"display_placement" yaml:"display_placement"`
    URL                string     `json:"url,omitempty" yaml:"url,omitempty"`
}

// Clone returns a copy that shares no pointers with t.
func (t TicketData) Clone() TicketData {
    if t.Date != nil {
        d := *t.Date
        t.Date = &d
    }
    return t
}

// Validate checks the enum fields.  Empty values are accepted and treated as
// floor / PM by the renderer.
func (t TicketData) Validate() error {
    if t.PlaceType != "" && !t.PlaceType.Valid() {
        return fmt.Errorf("%w: place_type must be seat or floor", ErrValidation)
    }
    if t.StartingHourSuffix != "" && !t.StartingHourSuffix.Valid() {
        return fmt.Errorf("%w: starting_hour_suffix must be AM, PM or 24h", ErrValidation)
    }
    return nil
}

// CalendarDate anchors a calendar day at 12:00 UTC so that converting it to
// any timezone between UTC-12 and UTC+11 keeps the same day.
func CalendarDate(year int, month time.Month, day int) time.Time {
    return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

var dateLayouts = []string{
    "2006-01-02",
    "1/2/2006",
    "January 2, 2006",
    "January 02, 2006",
}

// ParseDate accepts the date formats a form can produce: ISO dates,
// RFC 3339 timestamps (as sent by browsers), M/D/YYYY and long month names.
// The calendar fields of the input are kept as written; a timestamp is not
// shifted into another timezone before its day is read.
func ParseDate(s string) (time.Time, error) {
    s = strings.TrimSpace(s)
    if s == "" {
        return time.Time{}, fmt.Errorf("%w: empty date", ErrValidation)
    }
    if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
        return CalendarDate(ts.Year(), ts.Month(), ts.Day()), nil
    }
    for _, layout := range dateLayouts {
        if d, err := time.Parse(layout, s); err == nil {
            return CalendarDate(d.Year(), d.Month(), d.Day()), nil
        }
    }
    return time.Time{}, fmt.Errorf("%w: unrecognized date %q", ErrValidation, s)
}
