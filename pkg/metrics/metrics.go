package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the counters below.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	ReceiptEdits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilegranite",
		Name:      "receipt_edits_total",
		Help:      "Receipt edits by outcome.",
	}, []string{"outcome"})

	CommissionSyncs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilegranite",
		Name:      "commission_syncs_total",
		Help:      "Per-invoice commission syncs by outcome.",
	}, []string{"outcome"})

	CostSelections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tilegranite",
		Name:      "cost_selections_total",
		Help:      "Historical cost selections by basis.",
	}, []string{"basis"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tilegranite",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Registry holds every collector exposed on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ReceiptEdits,
		CommissionSyncs,
		CostSelections,
		HTTPRequestDuration,
	)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
