// Package metrics holds the Prometheus collectors of the service. They register with the
// default registry and are exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "schoolfees"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	GraphQLRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "graphql",
		Name:      "requests_total",
		Help:      "GraphQL requests sent to the backend by operation and outcome.",
	}, []string{"operation", "outcome"})

	GraphQLDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "graphql",
		Name:      "request_duration_seconds",
		Help:      "GraphQL request latency by operation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})

	BucketsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fee_buckets_created_total",
		Help:      "Fee buckets created.",
	})

	StructuresCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fee_structures_created_total",
		Help:      "Physical fee structures created.",
	})

	InvoicesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invoices_generated_total",
		Help:      "Invoices produced by bulk generation.",
	})

	GenerationRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_runs_total",
		Help:      "Bulk invoice generations by outcome.",
	}, []string{"outcome"})
)

// Outcome maps an error to its outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
