package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// NotificationsSent counts dispatched notifications by event type.
	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arendol",
			Name:      "notifications_sent_total",
			Help:      "Notifications dispatched by event type.",
		},
		[]string{"event_type"},
	)

	// BookingsAutoRejected counts bookings rejected by the deadline sweep.
	BookingsAutoRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "arendol",
			Name:      "bookings_auto_rejected_total",
			Help:      "Bookings auto-rejected after the approval deadline elapsed.",
		},
	)

	// SweepErrors counts per-entity failures inside scheduled sweeps.
	SweepErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arendol",
			Name:      "sweep_errors_total",
			Help:      "Errors inside scheduled sweeps by sweep name.",
		},
		[]string{"sweep"},
	)

	// SweepDuration observes how long each scheduled sweep takes.
	SweepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arendol",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of scheduled sweeps by sweep name.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"sweep"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arendol",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			NotificationsSent,
			BookingsAutoRejected,
			SweepErrors,
			SweepDuration,
			httpRequests,
		)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}
