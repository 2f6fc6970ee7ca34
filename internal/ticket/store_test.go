package ticket

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlelisefouasse/concert-tickets/internal/concert"
	"github.com/charlelisefouasse/concert-tickets/internal/model"
)

type stubLooker struct {
	res   concert.DetailResult
	query concert.DetailQuery
}

func (s *stubLooker) Details(_ context.Context, q concert.DetailQuery) concert.DetailResult {
	s.query = q
	return s.res
}

func newStore(t *testing.T, looker DetailLooker) *Store {
	t.Helper()
	logger, _ := test.NewNullLogger()
	s := NewStore(looker, logger)
	s.now = func() time.Time { return time.Date(2025, time.June, 1, 22, 30, 0, 0, time.UTC) }
	s.Reset()
	return s
}

func selection() model.ConcertSearchResult {
	return model.ConcertSearchResult{
		ID:       "s1",
		Artist:   "Harry Styles",
		ArtistID: "head",
		Date:     model.CalendarDate(2023, time.June, 13),
		Venue:    "Wembley Stadium",
		VenueID:  "v1",
		DateStr:  "13-06-2023",
		City:     "London",
		URL:      "https://www.setlist.fm/setlist/s1",
	}
}

func TestDefaults(t *testing.T) {
	d := Defaults(time.Date(2025, time.June, 1, 22, 30, 0, 0, time.UTC))

	assert.Equal(t, "Artist Name", d.Artist)
	assert.Equal(t, model.PlaceFloor, d.PlaceType)
	assert.Equal(t, model.SuffixPM, d.StartingHourSuffix)
	assert.Equal(t, "$45.00", d.Price)
	assert.True(t, d.DisplayPlacement)
	require.NotNil(t, d.Date)
	assert.Equal(t, 1, d.Date.Day())
}

func TestStore_UpdateAndGet(t *testing.T) {
	s := newStore(t, nil)
	artist := "Phoebe Bridgers"

	out, err := s.Update(model.TicketPatch{Artist: &artist})

	require.NoError(t, err)
	assert.Equal(t, "Phoebe Bridgers", out.Artist)
	assert.Equal(t, "Phoebe Bridgers", s.Get().Artist)
}

func TestStore_UpdateRejectedKeepsState(t *testing.T) {
	s := newStore(t, nil)
	bad := model.PlaceType("balcony")

	_, err := s.Update(model.TicketPatch{PlaceType: &bad})

	assert.True(t, errors.Is(err, model.ErrValidation))
	assert.Equal(t, model.PlaceFloor, s.Get().PlaceType)
}

func TestStore_GetReturnsCopy(t *testing.T) {
	s := newStore(t, nil)

	got := s.Get()
	*got.Date = got.Date.AddDate(1, 0, 0)

	assert.Equal(t, 2025, s.Get().Date.Year())
}

func TestStore_PlacementToggleRoundTrip(t *testing.T) {
	s := newStore(t, nil)
	seat := model.PlaceSeat
	section, row, num := "B", "12", "4"
	off, on := false, true

	_, err := s.Update(model.TicketPatch{PlaceType: &seat, Section: &section, Row: &row, SeatNumber: &num})
	require.NoError(t, err)
	_, err = s.Update(model.TicketPatch{DisplayPlacement: &off})
	require.NoError(t, err)
	out, err := s.Update(model.TicketPatch{DisplayPlacement: &on})
	require.NoError(t, err)

	assert.Equal(t, "B", out.Section)
	assert.Equal(t, "12", out.Row)
	assert.Equal(t, "4", out.SeatNumber)
}

func TestStore_SelectConcert_WithOpeners(t *testing.T) {
	looker := &stubLooker{res: concert.DetailResult{
		Status:  concert.StatusOK,
		Details: &model.ConcertDetails{Openers: []string{"Wet Leg", "Inhaler"}},
	}}
	s := newStore(t, looker)

	out, res := s.SelectConcert(context.Background(), selection())

	assert.Equal(t, concert.StatusOK, res.Status)
	assert.Equal(t, "Harry Styles", out.Artist)
	assert.Equal(t, "Wembley Stadium", out.Venue)
	assert.Equal(t, "London", out.City)
	assert.Equal(t, "https://www.setlist.fm/setlist/s1", out.URL)
	require.NotNil(t, out.Date)
	assert.Equal(t, 13, out.Date.Day())
	assert.Equal(t, "Wet Leg, Inhaler", out.SupportingArtists)
	assert.Equal(t, concert.DetailQuery{VenueID: "v1", DateStr: "13-06-2023", HeadlinerID: "head"}, looker.query)
}

func TestStore_SelectConcert_NoOpenersClears(t *testing.T) {
	looker := &stubLooker{res: concert.DetailResult{Status: concert.StatusOK, Details: &model.ConcertDetails{Openers: []string{}}}}
	s := newStore(t, looker)

	out, _ := s.SelectConcert(context.Background(), selection())

	assert.Empty(t, out.SupportingArtists)
}

func TestStore_SelectConcert_FailureLeavesSupportingUntouched(t *testing.T) {
	for _, res := range []concert.DetailResult{
		{Status: concert.StatusFailed, Err: errors.New("boom")},
		{Status: concert.StatusNoData},
	} {
		s := newStore(t, &stubLooker{res: res})

		out, _ := s.SelectConcert(context.Background(), selection())

		assert.Equal(t, "Supporting Artist", out.SupportingArtists, res.Status)
		assert.Equal(t, "Harry Styles", out.Artist)
	}
}

func TestStore_SelectConcert_WithoutLooker(t *testing.T) {
	s := newStore(t, nil)

	out, res := s.SelectConcert(context.Background(), selection())

	assert.Equal(t, concert.StatusFailed, res.Status)
	assert.Equal(t, "Supporting Artist", out.SupportingArtists)
	assert.Equal(t, "Harry Styles", out.Artist)
}

func TestStore_SelectConcert_AnchorsOffsetDates(t *testing.T) {
	s := newStore(t, &stubLooker{res: concert.DetailResult{Status: concert.StatusNoData}})

	c := selection()
	c.DateStr = ""
	c.Date = time.Date(2023, time.June, 13, 0, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	got, _ := s.SelectConcert(context.Background(), c)
	require.NotNil(t, got.Date)
	assert.Equal(t, model.CalendarDate(2023, time.June, 13), *got.Date)

	c = selection()
	c.Date = time.Date(2023, time.June, 12, 23, 0, 0, 0, time.FixedZone("EDT", -4*60*60))
	got, _ = s.SelectConcert(context.Background(), c)
	assert.Equal(t, model.CalendarDate(2023, time.June, 13), *got.Date)
}

// gatedLooker answers per venue and holds venues listed in gates until their
// channel is closed.
type gatedLooker struct {
	res     map[string]concert.DetailResult
	gates   map[string]chan struct{}
	entered chan string
}

func (g *gatedLooker) Details(_ context.Context, q concert.DetailQuery) concert.DetailResult {
	g.entered <- q.VenueID
	if gate, ok := g.gates[q.VenueID]; ok {
		<-gate
	}
	return g.res[q.VenueID]
}

func TestStore_SelectConcert_LateLookupDoesNotOverwriteNewerSelection(t *testing.T) {
	looker := &gatedLooker{
		res: map[string]concert.DetailResult{
			"v1": {Status: concert.StatusOK, Details: &model.ConcertDetails{Openers: []string{"Wet Leg"}}},
			"v2": {Status: concert.StatusOK, Details: &model.ConcertDetails{Openers: []string{"Muna"}}},
		},
		gates:   map[string]chan struct{}{"v1": make(chan struct{})},
		entered: make(chan string, 2),
	}
	s := newStore(t, looker)

	first := make(chan model.TicketData, 1)
	go func() {
		got, _ := s.SelectConcert(context.Background(), selection())
		first <- got
	}()
	require.Equal(t, "v1", <-looker.entered)

	other := selection()
	other.Artist, other.Venue, other.VenueID, other.City = "Phoebe Bridgers", "Hollywood Bowl", "v2", "Los Angeles"
	got, res := s.SelectConcert(context.Background(), other)
	<-looker.entered
	require.Equal(t, concert.StatusOK, res.Status)
	assert.Equal(t, "Muna", got.SupportingArtists)

	close(looker.gates["v1"])
	late := <-first
	assert.Equal(t, "Muna", late.SupportingArtists)
	assert.Equal(t, "Hollywood Bowl", s.Get().Venue)
	assert.Equal(t, "Muna", s.Get().SupportingArtists)
}

func TestStore_SelectConcert_ResetDuringLookupDropsOpeners(t *testing.T) {
	looker := &gatedLooker{
		res:     map[string]concert.DetailResult{"v1": {Status: concert.StatusOK, Details: &model.ConcertDetails{Openers: []string{"Wet Leg"}}}},
		gates:   map[string]chan struct{}{"v1": make(chan struct{})},
		entered: make(chan string, 1),
	}
	s := newStore(t, looker)

	done := make(chan struct{})
	go func() {
		s.SelectConcert(context.Background(), selection())
		close(done)
	}()
	<-looker.entered
	s.Reset()
	close(looker.gates["v1"])
	<-done

	assert.Equal(t, "Supporting Artist", s.Get().SupportingArtists)
	assert.Equal(t, "Artist Name", s.Get().Artist)
}

func TestStore_ReplaceAndReset(t *testing.T) {
	s := newStore(t, nil)

	_, err := s.Replace(model.TicketData{Artist: "Loaded", PlaceType: "bogus"})
	assert.Error(t, err)

	out, err := s.Replace(model.TicketData{Artist: "Loaded"})
	require.NoError(t, err)
	assert.Equal(t, "Loaded", out.Artist)

	assert.Equal(t, "Artist Name", s.Reset().Artist)
}
