package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine-level prometheus counters. Decode attempts are counted per raw
// candidate, matches per series, so the miss rate at workbook-scan scale is
// visible without log noise.
var (
	DecodeAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricebook_decode_attempts_total",
		Help: "Raw candidate strings tested against the grammar set",
	})

	DecodeMatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricebook_decode_matches_total",
		Help: "Successful decode+price resolutions by series",
	}, []string{"series"})

	DecodeSkips = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricebook_decode_skips_total",
		Help: "Grammar matches skipped during resolution, by reason",
	}, []string{"series", "reason"})

	ModelsExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pricebook_models_extracted_total",
		Help: "Priced models produced by bulk workbook extraction",
	})

	UpdateRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricebook_update_runs_total",
		Help: "Price-update runs by terminal status",
	}, []string{"status"})

	CustomerReprices = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pricebook_customer_reprices_total",
		Help: "Background customer reprice transactions by outcome",
	}, []string{"outcome"})
)
