// Package metrics defines and registers all custom Prometheus metrics of the
// sales web front-end. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sales_web"

// ── Upstream API metrics ──────────────────────────────────────────────────────

// UpstreamRequestsTotal counts requests issued to the REST backend.
// Labels:
//   - resource: first path segment of the endpoint (e.g. "clients", "reports")
//   - method: HTTP method
//   - outcome: status class ("2xx", "4xx", "5xx") or "transport_error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the sales REST backend.",
	},
	[]string{"resource", "method", "outcome"},
)

// UpstreamRequestDuration measures round-trip latency to the REST backend.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of requests sent to the sales REST backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource", "method"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle events.
// Label:
//   - event: "login", "logout", "unexpected_role", "corrupt_entry"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events.",
	},
	[]string{"event"},
)

// GateDecisionsTotal counts authorization gate outcomes.
// Label:
//   - outcome: "allow", "login", "dashboard"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of route authorization decisions, by outcome.",
	},
	[]string{"outcome"},
)

// ── Workflow metrics ──────────────────────────────────────────────────────────

// ClientTransitionsTotal counts approval workflow actions.
// Labels:
//   - action: "approve" or "reject"
//   - result: "ok" or "error"
var ClientTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_transitions_total",
		Help:      "Total number of client approval actions, by action and result.",
	},
	[]string{"action", "result"},
)

// ReportsGeneratedTotal counts generated reports by kind.
var ReportsGeneratedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reports_generated_total",
		Help:      "Total number of sales reports generated, by kind.",
	},
	[]string{"kind"},
)
