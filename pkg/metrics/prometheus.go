package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	RemindersDerived prometheus.Gauge
	EmailsSent       prometheus.Counter
	DispatchFailures *prometheus.CounterVec
	TickDuration     prometheus.Histogram
	ErrorsCount      *prometheus.CounterVec
}

// NewMetrics creates the service metrics and registers them with reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate
// registration against the default registerer. A nil reg leaves the
// metrics unregistered.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RemindersDerived: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reminders_pending",
			Help:      "Reminders derived on the last dispatch tick",
		}),
		EmailsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_emails_sent_total",
			Help:      "The total number of reminder emails sent",
		}),
		DispatchFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminder_dispatch_failures_total",
			Help:      "Reminders that could not be dispatched",
		}, []string{"reason"}),
		TickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_tick_seconds",
			Help:      "Time taken by one dispatch tick",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// NewNopMetrics returns unregistered metrics
func NewNopMetrics() *Metrics {
	return NewMetrics("test", nil)
}
