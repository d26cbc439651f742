// Package metrics holds the Prometheus collectors for node executions and outbound Apollo calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors groups every metric the host records.
type Collectors struct {
	Executions *prometheus.CounterVec
	ItemErrors *prometheus.CounterVec
	Records    *prometheus.CounterVec
	Duration   *prometheus.HistogramVec

	APIRequests *prometheus.CounterVec
	APIDuration *prometheus.HistogramVec
	APIInFlight prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg skips registration.
func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		Executions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apollonode_executions_total",
				Help: "Node executions by resource, operation and final status.",
			},
			[]string{"resource", "operation", "status"},
		),
		ItemErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apollonode_item_errors_total",
				Help: "Items converted to error records in failure-tolerant mode.",
			},
			[]string{"resource", "operation"},
		),
		Records: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apollonode_records_total",
				Help: "Result records emitted.",
			},
			[]string{"resource", "operation"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apollonode_execution_duration_seconds",
				Help:    "Wall time of node executions.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource", "operation"},
		),
		APIRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "apollonode_api_requests_total",
				Help: "Outbound Apollo API requests by status code and method.",
			},
			[]string{"code", "method"},
		),
		APIDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "apollonode_api_request_duration_seconds",
				Help:    "Latency of outbound Apollo API requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		APIInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "apollonode_api_requests_in_flight",
			Help: "Outbound Apollo API requests currently in flight.",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			c.Executions, c.ItemErrors, c.Records, c.Duration,
			c.APIRequests, c.APIDuration, c.APIInFlight,
		)
	}
	return c
}

// ObserveExecution records one finished execution.
func (c *Collectors) ObserveExecution(resource, operation, status string, records, itemErrors int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.Executions.WithLabelValues(resource, operation, status).Inc()
	c.Duration.WithLabelValues(resource, operation).Observe(elapsed.Seconds())
	if records > 0 {
		c.Records.WithLabelValues(resource, operation).Add(float64(records))
	}
	if itemErrors > 0 {
		c.ItemErrors.WithLabelValues(resource, operation).Add(float64(itemErrors))
	}
}
