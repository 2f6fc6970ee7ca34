package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	setlistRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "setlist_requests_total",
			Help: "Calls to the setlist listing API by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	searchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "concert_search_results",
			Help:    "Number of concerts returned per search after dedup and truncation",
			Buckets: []float64{0, 1, 2, 5, 10, 15},
		},
	)

	skippedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "setlist_rows_skipped_total",
			Help: "Search rows dropped because their venue or event date was missing or unreadable",
		},
	)

	ticketExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_exports_total",
			Help: "Ticket raster exports by outcome",
		},
		[]string{"status"},
	)

	exportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticket_export_duration_seconds",
			Help:    "Time spent rasterizing and stamping one export",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
		},
	)
)

// Track a setlist API call
func TrackSetlistRequest(operation, status string) {
	setlistRequests.WithLabelValues(operation, status).Inc()
}

// Track how many results a search produced
func TrackSearchResults(n int) {
	searchResults.Observe(float64(n))
}

// Track search rows that could not become results
func TrackSkippedRows(n int) {
	skippedRows.Add(float64(n))
}

// Track an export attempt and, when it produced a file, its duration
func TrackExport(status string, duration time.Duration) {
	ticketExports.WithLabelValues(status).Inc()
	if status == "ok" {
		exportDuration.Observe(duration.Seconds())
	}
}
