package model

// TicketPatch is a field-level update.  Nil fields are left untouched.
// Date is a string so that "" can clear the date while an absent field
// keeps it.
type TicketPatch struct {
    Artist             *string     `json:"artist"`
    Date               *string     `json:"date"`
    Venue              *string     `json:"venue"`
    City               *string     `json:"city"`
    SupportingArtists  *string     `json:"supporting_artists"`
    StartingHour       *string     `json:"starting_hour"`
    StartingHourSuffix *HourSuffix `json:"starting_hour_suffix"`
    PlaceType          *PlaceType  `json:"place_type"`
    Section            *string     `json:"section"`
    Row                *string     `json:"row"`
    SeatNumber         *string     `json:"seat_number"`
    TicketType         *string     `json:"ticket_type"`
    Price              *string     `json:"price"`
    DisplayPlacement   *bool       `json:"display_placement"`
    URL                *string     `json:"url"`
}

// Apply returns t with the patch applied.  t is not modified when the patch
// is rejected.
func (p TicketPatch) Apply(t TicketData) (TicketData, error) {
    out := t.Clone()
    setString(&out.Artist, p.Artist)
    setString(&out.Venue, p.Venue)
    setString(&out.City, p.City)
    setString(&out.SupportingArtists, p.SupportingArtists)
    setString(&out.StartingHour, p.StartingHour)
    setString(&out.Section, p.Section)
    setString(&out.Row, p.Row)
    setString(&out.SeatNumber, p.SeatNumber)
    setString(&out.TicketType, p.TicketType)
    setString(&out.Price, p.Price)
    setString(&out.URL, p.URL)
    if p.StartingHourSuffix != nil {
        out.StartingHourSuffix = *p.StartingHourSuffix
    }
    if p.PlaceType != nil {
        out.PlaceType = *p.PlaceType
    }
    if p.DisplayPlacement != nil {
        out.DisplayPlacement = *p.DisplayPlacement
    }
    if p.Date != nil {
        if *p.Date == "" {
            out.Date = nil
        } else {
            d, err := ParseDate(*p.Date)
            if err != nil {
                return t, err
            }
            out.Date = &d
        }
    }
    if err := out.Validate(); err != nil {
        return t, err
    }
    return out, nil
}

func setString(dst *string, v *string) {
    if v != nil {
        *dst = *v
    }
}
