package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseDate_Formats(t *testing.T) {
	want := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC)

	for _, in := range []string{
		"2024-03-05",
		"3/5/2024",
		"March 5, 2024",
		"2024-03-05T00:00:00+01:00",
		"2024-03-05T23:30:00-08:00",
		" 2024-03-05 ",
	} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s -> %s", in, got)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	_, err := ParseDate("yesterday")
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ParseDate("")
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestCalendarDate_SameDayAcrossZones(t *testing.T) {
	d := CalendarDate(2024, time.March, 5)
	for _, offset := range []int{-11, -5, 0, 1, 9, 11} {
		loc := time.FixedZone("test", offset*3600)
		assert.Equal(t, 5, d.In(loc).Day(), "offset %d", offset)
	}
}

func TestTicketPatch_Apply(t *testing.T) {
	base := TicketData{Artist: "Old", Venue: "Venue", PlaceType: PlaceFloor, StartingHourSuffix: SuffixPM}
	seat := PlaceSeat

	out, err := TicketPatch{
		Artist:    strPtr("Harry Styles"),
		PlaceType: &seat,
		Section:   strPtr("B"),
		Date:      strPtr("2023-06-13"),
	}.Apply(base)

	require.NoError(t, err)
	assert.Equal(t, "Harry Styles", out.Artist)
	assert.Equal(t, "Venue", out.Venue)
	assert.Equal(t, PlaceSeat, out.PlaceType)
	assert.Equal(t, "B", out.Section)
	require.NotNil(t, out.Date)
	assert.Equal(t, 13, out.Date.Day())
	assert.Equal(t, "Old", base.Artist)
}

func TestTicketPatch_EmptyDateClears(t *testing.T) {
	d := CalendarDate(2024, time.January, 1)
	out, err := TicketPatch{Date: strPtr("")}.Apply(TicketData{Date: &d})

	require.NoError(t, err)
	assert.Nil(t, out.Date)
}

func TestTicketPatch_RejectsUnknownEnums(t *testing.T) {
	base := TicketData{Artist: "Kept"}
	bad := PlaceType("balcony")

	out, err := TicketPatch{Artist: strPtr("Changed"), PlaceType: &bad}.Apply(base)

	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "Kept", out.Artist)

	suffix := HourSuffix("noon")
	_, err = TicketPatch{StartingHourSuffix: &suffix}.Apply(base)
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestTicketPatch_DisplayPlacementKeepsSeatFields(t *testing.T) {
	off, on := false, true
	base := TicketData{PlaceType: PlaceSeat, Section: "A", Row: "12", SeatNumber: "4", DisplayPlacement: true}

	hidden, err := TicketPatch{DisplayPlacement: &off}.Apply(base)
	require.NoError(t, err)
	assert.Equal(t, "A", hidden.Section)

	shown, err := TicketPatch{DisplayPlacement: &on}.Apply(hidden)
	require.NoError(t, err)
	assert.Equal(t, base, shown)
}

func TestTicketData_CloneDetachesDate(t *testing.T) {
	d := CalendarDate(2024, time.May, 1)
	orig := TicketData{Date: &d}

	c := orig.Clone()
	*c.Date = c.Date.AddDate(0, 0, 1)

	assert.Equal(t, 1, orig.Date.Day())
}
