package metrics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Export metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "print_exporter_exports_total",
			Help: "Total number of export attempts by outcome",
		},
		[]string{"status", "kind"},
	)

	ExportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "print_exporter_export_duration_seconds",
			Help:    "Wall time of a full item export",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"status"},
	)

	// Converter metrics
	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "print_exporter_conversion_duration_seconds",
			Help:    "Wall time of external converter runs",
			Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"status"},
	)

	// Assembly metrics
	AttachmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "print_exporter_attachments_total",
			Help: "Sub-part attachments by pass and outcome",
		},
		[]string{"pass", "outcome"},
	)

	DedupFragmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "print_exporter_dedup_fragments_total",
			Help: "Fragments seen by the LOD deduplicator by decision",
		},
		[]string{"decision"},
	)
)

// RecordExport records the outcome of one export. kind is empty on success.
func RecordExport(status, kind string, duration time.Duration) {
	ExportsTotal.WithLabelValues(status, kind).Inc()
	ExportDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordConversion records one converter run; skipped runs are not recorded.
func RecordConversion(status string, duration time.Duration) {
	ConversionDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordAttachment counts one attachment attempt.
func RecordAttachment(pass, outcome string) {
	AttachmentsTotal.WithLabelValues(pass, outcome).Inc()
}

// RecordDedup counts one deduplicator decision.
func RecordDedup(decision string) {
	DedupFragmentsTotal.WithLabelValues(decision).Inc()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// Register mounts the metrics endpoint on path.
func Register(r fiber.Router, path string) {
	r.Get(path, Handler())
}
