package export

import (
	"math"
	"strings"

	"github.com/charlelisefouasse/concert-tickets/internal/model"
	"github.com/charlelisefouasse/concert-tickets/internal/render"
)

// TargetWidth is the pixel width a print of widthMM needs at dpi.
func TargetWidth(widthMM float64, dpi int) float64 {
	return widthMM / 25.4 * float64(dpi)
}

// PixelRatio scales a measured on-screen width up to the print target.
func PixelRatio(widthMM float64, dpi int, measuredPx float64) float64 {
	return TargetWidth(widthMM, dpi) / measuredPx
}

func OutputWidth(measuredPx, ratio float64) int {
	return int(math.Round(measuredPx * ratio))
}

// Slug lowercases s and joins its words with single hyphens.  Characters
// that cannot appear in a file name are dropped.
func Slug(s string) string {
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`/\:*?"<>|`, r) {
			return -1
		}
		return r
	}, strings.ToLower(s))
	return strings.Join(strings.Fields(s), "-")
}

// Filename names the exported file after the artist and the ticket date.
func Filename(t model.TicketData) string {
	artist := strings.TrimSpace(t.Artist)
	if artist == "" {
		artist = "ARTIST NAME"
	}
	date := "date-tbd"
	if t.Date != nil && !t.Date.IsZero() {
		date = strings.ReplaceAll(render.DateLabel(t.Date), "/", "-")
	}
	return "ticket-" + Slug(artist) + "-" + date + ".png"
}
