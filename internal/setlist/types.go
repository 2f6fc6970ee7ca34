package setlist

import "net/url"

// SearchResponse mirrors the JSON body of GET /search/setlists.  Only the
// fields the gateway reads are declared.
type SearchResponse struct {
	Setlist      []Setlist `json:"setlist"`
	Total        int       `json:"total"`
	Page         int       `json:"page"`
	ItemsPerPage int       `json:"itemsPerPage"`
}

// Setlist is one artist performance.  A concert with openers appears as
// several setlists sharing venue and eventDate.
type Setlist struct {
	ID        string `json:"id"`
	EventDate string `json:"eventDate"` // DD-MM-YYYY
	URL       string `json:"url"`
	Artist    Artist `json:"artist"`
	Venue     *Venue `json:"venue"`
}

type Artist struct {
	MBID string `json:"mbid"`
	Name string `json:"name"`
}

type Venue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City *City  `json:"city"`
}

type City struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Country *Country `json:"country"`
}

type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Query holds the search filters.  Empty fields are not sent.
type Query struct {
	ArtistName string
	CityName   string
	VenueID    string
	Date       string // DD-MM-YYYY
}

// Values encodes the non-empty filters as query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.ArtistName != "" {
		v.Set("artistName", q.ArtistName)
	}
	if q.CityName != "" {
		v.Set("cityName", q.CityName)
	}
	if q.VenueID != "" {
		v.Set("venueId", q.VenueID)
	}
	if q.Date != "" {
		v.Set("date", q.Date)
	}
	return v
}
