// Package metrics exposes ledger counters and latencies to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "splitledger"

var (
	// ExpensesRecorded counts committed expenses by mode ("group" or "individual").
	ExpensesRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_recorded_total",
		Help:      "Expenses committed to the ledger.",
	}, []string{"mode"})

	// ExpensesRejected counts expenses refused before anything was written.
	ExpensesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_rejected_total",
		Help:      "Expenses rejected by validation.",
	}, []string{"mode"})

	// SharesSettled counts settle calls; outcome is "first" or "repeat".
	SharesSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "shares_settled_total",
		Help:      "Share settlements applied.",
	}, []string{"outcome"})

	// SplitRecalculations counts recalculations; status is "calculated" or "nothing_to_split".
	SplitRecalculations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "split_recalculations_total",
		Help:      "Group split recalculations.",
	}, []string{"status"})

	// SplitTransfers records how many transfers each recalculation produced.
	SplitTransfers = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "split_transfers",
		Help:      "Transfers produced per group split recalculation.",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
	})

	// EventPublishFailures counts ledger events that could not be delivered.
	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_publish_failures_total",
		Help:      "Ledger events dropped after a failed publish.",
	}, []string{"kind"})

	// RPCDuration observes handler latency by procedure and Connect code.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Connect RPC latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
