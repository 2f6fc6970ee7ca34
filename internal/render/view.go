// Package render lays out a ticket and draws it to a raster image.
//
// All layout is done in millimetres on a 200mm x 56.6mm card and converted
// to pixels only when drawing, so the same layout serves the on-screen
// preview and the print export.
package render

import (
	"math"
	"strings"
	"time"

	"github.com/charlelisefouasse/concert-tickets/internal/model"
)

const (
	WidthMM  = 200.0
	HeightMM = 56.6

	// CSSPixelsPerMM is the browser reference density (96 px per inch).
	CSSPixelsPerMM = 96 / 25.4

	maxPreviewScale  = 1.5
	previewPaddingPx = 64
)

// Cell is one labelled value of the seat grid.
type Cell struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Placement is the stub block describing where the holder stands or sits.
type Placement struct {
	Kind  string `json:"kind"`
	Cells []Cell `json:"cells,omitempty"`
}

// View is the display form of a ticket: every string that appears on the
// card, with fallbacks applied.  Placement is nil when nothing about
// placement must be shown.
type View struct {
	Headline   string     `json:"headline"`
	Supporting string     `json:"supporting,omitempty"`
	DateLabel  string     `json:"date_label"`
	TimeLabel  string     `json:"time_label,omitempty"`
	Venue      string     `json:"venue,omitempty"`
	City       string     `json:"city,omitempty"`
	TicketType string     `json:"ticket_type,omitempty"`
	Price      string     `json:"price,omitempty"`
	StubArtist string     `json:"stub_artist"`
	Placement  *Placement `json:"placement,omitempty"`
}

// NewView projects a ticket onto its display strings.
func NewView(t model.TicketData) View {
	v := View{
		Headline:   fallback(t.Artist, "ARTIST NAME"),
		DateLabel:  DateLabel(t.Date),
		TimeLabel:  TimeLabel(t.StartingHour, t.StartingHourSuffix),
		Venue:      strings.TrimSpace(t.Venue),
		City:       strings.TrimSpace(t.City),
		TicketType: strings.TrimSpace(t.TicketType),
		Price:      strings.TrimSpace(t.Price),
		StubArtist: fallback(t.Artist, "ARTIST"),
	}
	if s := strings.TrimSpace(t.SupportingArtists); s != "" {
		v.Supporting = "with " + s
	}
	if !t.DisplayPlacement {
		return v
	}
	if t.PlaceType != model.PlaceSeat {
		v.Placement = &Placement{Kind: "Floor"}
		return v
	}
	p := &Placement{Kind: "Seated"}
	for _, c := range []Cell{{"Section", t.Section}, {"Row", t.Row}, {"Seat", t.SeatNumber}} {
		if c.Value = strings.TrimSpace(c.Value); c.Value != "" {
			p.Cells = append(p.Cells, c)
		}
	}
	v.Placement = p
	return v
}

// DateLabel formats a ticket date as M/D/YYYY, or "DATE TBD" when unset.
func DateLabel(d *time.Time) string {
	if d == nil || d.IsZero() {
		return "DATE TBD"
	}
	return d.UTC().Format("1/2/2006")
}

// TimeLabel joins the starting hour and its suffix.  An empty suffix reads
// as PM and the 24h suffix is not printed.
func TimeLabel(hour string, suffix model.HourSuffix) string {
	hour = strings.TrimSpace(hour)
	if hour == "" {
		return ""
	}
	if suffix == "" {
		suffix = model.SuffixPM
	}
	if suffix == model.Suffix24h {
		return hour
	}
	return hour + " " + string(suffix)
}

// PreviewScale fits the card into a container of the given CSS width,
// leaving room for padding and never enlarging past 1.5x.  A non-positive
// width means no container and yields 1.
func PreviewScale(containerWidth float64) float64 {
	if containerWidth <= 0 {
		return 1
	}
	scale := math.Min(maxPreviewScale, (containerWidth-previewPaddingPx)/(WidthMM*CSSPixelsPerMM))
	if scale < 0.1 {
		scale = 0.1
	}
	return scale
}

// CSSWidth is the on-screen width of the card in CSS pixels at the given
// scale.
func CSSWidth(scale float64) int {
	return int(math.Round(WidthMM * CSSPixelsPerMM * scale))
}

func fallback(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
