package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// HTTPRequestsTotal counts served requests by route pattern and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traffic_report",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests, labeled by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "traffic_report",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by method and route.",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"method", "route"})

	// IngestTotal counts incident ingestion attempts by source (http, amqp) and result.
	IngestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "traffic_report",
		Name:      "ingest_total",
		Help:      "Total number of incident ingestion attempts, labeled by source and result.",
	}, []string{"source", "result"})

	// ConsumerInFlight is the number of deliveries being processed by workers.
	ConsumerInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "traffic_report",
		Subsystem: "rabbitmq",
		Name:      "worker_in_flight",
		Help:      "Current number of RabbitMQ deliveries being processed.",
	})
)

// Ingest result labels.
const (
	ResultStored    = "stored"
	ResultMalformed = "malformed"
	ResultRejected  = "rejected"
	ResultFailed    = "failed"
)

// Register adds all collectors to the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			IngestTotal,
			ConsumerInFlight,
		)
	})
}
