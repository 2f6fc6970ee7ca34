// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketExportedQueue is the durable queue export notifications go to.
const TicketExportedQueue = "ticket.exported"

// TicketExportedEvent is published after a ticket image has been produced.
// It carries enough of the ticket for downstream consumers to log or count
// exports without access to the session that made them.
type TicketExportedEvent struct {
    ExportID   string `json:"export_id"`
    Artist     string `json:"artist"`
    Venue      string `json:"venue"`
    City       string `json:"city"`
    Date       string `json:"date"`
    Filename   string `json:"filename"`
    DPI        int    `json:"dpi"`
    WidthPx    int    `json:"width_px"`
    HeightPx   int    `json:"height_px"`
    Bytes      int    `json:"bytes"`
    ExportedAt string `json:"exported_at"`
}
