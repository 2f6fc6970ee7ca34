package model

import "time"

// ConcertSearchResult is one candidate event returned by a concert search.
// DateStr keeps the upstream DD-MM-YYYY string because the detail lookup
// must send it back verbatim.  Openers is always empty at search time.
type ConcertSearchResult struct {
    ID        string    `json:"id"`
    Artist    string    `json:"artist"`
    ArtistID  string    `json:"artist_id"`
    Date      time.Time `json:"date"`
    Venue     string    `json:"venue"`
    VenueID   string    `json:"venue_id"`
    DateStr   string    `json:"date_str"`
    City      string    `json:"city"`
    Openers   []string  `json:"openers"`
    StartTime string    `json:"start_time,omitempty"`
    URL       string    `json:"url,omitempty"`
}

// ConcertDetails holds what the detail lookup derives for one event.
type ConcertDetails struct {
    Openers []string `json:"openers"`
}
