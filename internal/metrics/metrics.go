package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingest pipeline metrics
	IngestItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquorfy_ingest_items_total",
			Help: "Total number of catalog items processed, by outcome",
		},
		[]string{"chain", "result"},
	)

	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquorfy_ingest_runs_total",
			Help: "Total number of ingestion runs, by final status",
		},
		[]string{"chain", "status"},
	)

	LastRunUnix = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "liquorfy_last_run_unix",
			Help: "Unix timestamp of the most recent finished run",
		},
		[]string{"chain"},
	)

	// Fetch metrics
	FetchPagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquorfy_fetch_pages_total",
			Help: "Total number of listing pages fetched",
		},
		[]string{"chain"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "liquorfy_fetch_request_seconds",
			Help:    "Duration of listing page fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"chain"},
	)

	// Sweeper metrics
	PromoSweptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "liquorfy_promo_swept_total",
			Help: "Total number of price rows whose promo state was cleared, by sweep layer",
		},
		[]string{"layer"},
	)
)

// RecordItem increments the item counter for one processed record
func RecordItem(chain, result string) {
	IngestItemsTotal.WithLabelValues(chain, result).Inc()
}

// RecordRun increments the run counter and stamps the last-run gauge
func RecordRun(chain, status string, finishedAt time.Time) {
	IngestRunsTotal.WithLabelValues(chain, status).Inc()
	LastRunUnix.WithLabelValues(chain).Set(float64(finishedAt.Unix()))
}

// RecordPage increments the page counter for one fetched listing page
func RecordPage(chain string) {
	FetchPagesTotal.WithLabelValues(chain).Inc()
}

// TrackFetch returns a function that records the duration of a page
// fetch when invoked with its start time
func TrackFetch(chain string) func(startTime time.Time) {
	return func(startTime time.Time) {
		FetchDuration.WithLabelValues(chain).Observe(time.Since(startTime).Seconds())
	}
}

// RecordSwept adds n cleared rows to the sweep counter for a layer
func RecordSwept(layer string, n int64) {
	if n > 0 {
		PromoSweptTotal.WithLabelValues(layer).Add(float64(n))
	}
}
