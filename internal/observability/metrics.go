package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	submissionRequests  *prometheus.CounterVec
	submissionRejected  *prometheus.CounterVec
	submissionLatency   prometheus.Histogram
	broadcastDeliveries prometheus.Counter
)

func register() {
	submissionRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "submission",
		Name:      "requests_total",
		Help:      "Submission attempts partitioned by outcome.",
	}, []string{"outcome"})

	submissionRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "submission",
		Name:      "rejected_total",
		Help:      "Submissions rejected before reaching the grader, by reason.",
	}, []string{"reason"})

	submissionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "portal",
		Subsystem: "submission",
		Name:      "duration_seconds",
		Help:      "End-to-end submission flow latency.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	broadcastDeliveries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "portal",
		Subsystem: "broadcast",
		Name:      "deliveries_total",
		Help:      "Notifications written by broadcast requests.",
	})

	prometheus.MustRegister(
		submissionRequests,
		submissionRejected,
		submissionLatency,
		broadcastDeliveries,
	)
}

// SubmissionRequests counts submission attempts by outcome.
func SubmissionRequests() *prometheus.CounterVec {
	registerOnce.Do(register)
	return submissionRequests
}

// SubmissionRejected counts pre-grader rejections by reason.
func SubmissionRejected() *prometheus.CounterVec {
	registerOnce.Do(register)
	return submissionRejected
}

// SubmissionLatency observes end-to-end submission latency.
func SubmissionLatency() prometheus.Histogram {
	registerOnce.Do(register)
	return submissionLatency
}

// BroadcastDeliveries counts notifications fanned out by broadcasts.
func BroadcastDeliveries() prometheus.Counter {
	registerOnce.Do(register)
	return broadcastDeliveries
}
