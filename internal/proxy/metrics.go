package proxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts proxy activity for the /metrics endpoint.
type Metrics struct {
	uploads    *prometheus.CounterVec
	uploadSize prometheus.Histogram
}

// NewMetrics registers proxy metrics on the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookblitz",
			Subsystem: "upload_proxy",
			Name:      "uploads_total",
			Help:      "Image uploads by outcome.",
		}, []string{"outcome"}),
		uploadSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookblitz",
			Subsystem: "upload_proxy",
			Name:      "upload_size_bytes",
			Help:      "Size of accepted image uploads.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
	}
}

// observeUpload tolerates a nil receiver so handlers can run without a
// metrics registry.
func (m *Metrics) observeUpload(outcome string, size int64) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
	if outcome == "accepted" && size > 0 {
		m.uploadSize.Observe(float64(size))
	}
}
