package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScansRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_scans_recorded_total",
		Help: "Scan rows accepted for persistence, by campaign code.",
	}, []string{"campaign"})

	ScansDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qr_scans_dropped_total",
		Help: "Scan events dropped because the background queue was full.",
	})

	ScanInsertFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qr_scan_insert_failures_total",
		Help: "Scan inserts rejected by the store.",
	})

	RedirectsServedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_redirects_served_total",
		Help: "Tracking requests answered with a redirect or landing page.",
	}, []string{"campaign"})

	EnrichmentUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_enrichment_updates_total",
		Help: "Device-data callbacks, by whether they matched a scan row.",
	}, []string{"applied"})

	CompletionUpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "qr_completion_updates_total",
		Help: "Completion callbacks, by whether they matched a scan row.",
	}, []string{"applied"})

	QRGenerationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "qr_images_generated_total",
		Help: "QR images rendered.",
	})
)

// AppliedLabel converts an applied bool into the metric label value.
func AppliedLabel(applied bool) string {
	if applied {
		return "true"
	}
	return "false"
}
