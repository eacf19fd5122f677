package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EmailsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emails_sent_total",
			Help: "Total reminder emails sent",
		},
	)

	EmailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_failures_total",
			Help: "Total reminder emails that exhausted retries or failed permanently",
		},
	)

	EmailRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "email_retries_total",
			Help: "Total send attempts that failed and were rescheduled",
		},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reminder_tick_seconds",
			Help:    "Duration of one queue scheduler sweep",
			Buckets: prometheus.DefBuckets,
		},
	)

	TickJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminder_tick_jobs",
			Help: "Jobs processed in the most recent sweep",
		},
	)

	TransportUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "reminder_transport_up",
			Help: "Whether the mail transport is reachable (1) or not (0)",
		},
	)
)

func Init() {
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(EmailFailures)
	prometheus.MustRegister(EmailRetries)
	prometheus.MustRegister(TickDuration)
	prometheus.MustRegister(TickJobs)
	prometheus.MustRegister(TransportUp)
}
