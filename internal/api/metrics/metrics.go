// Package metrics defines and registers all custom Prometheus metrics for
// the ML serving API. It is the single source of truth for metric names,
// labels, and help strings. Metrics self-register with the default registry
// via promauto; the /metrics endpoint is mounted by the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mlapi"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenValidationsTotal counts bearer token validations on protected routes.
// Label:
//   - result: "ok", "expired", "malformed", or "bad_signature"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of token validations, by result.",
	},
	[]string{"result"},
)

// AuthzDeniedTotal counts authorization denials after successful
// authentication.
// Label:
//   - action: the denied action (e.g. "admin-manage-users")
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests rejected with insufficient role.",
	},
	[]string{"action"},
)

// AuditEventsTotal counts recorded audit events.
// Label:
//   - kind: event kind (e.g. "login_success", "user_deleted")
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events recorded, by kind.",
	},
	[]string{"kind"},
)

// AuditDroppedTotal counts audit events dropped because a worker queue was
// full. Audit delivery is best-effort by design.
var AuditDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_dropped_total",
		Help:      "Total number of audit events dropped due to full worker queues.",
	},
)

// ── Prediction metrics ────────────────────────────────────────────────────────

// PredictionsTotal counts completed predictions.
// Label:
//   - label: the predicted label (e.g. "POSITIVE")
var PredictionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_total",
		Help:      "Total number of successful predictions, by label.",
	},
	[]string{"label"},
)

// PredictionDuration measures end-to-end predictor call latency.
// Label:
//   - outcome: "ok" or "error"
var PredictionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of predictor calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"outcome"},
)

// PredictionCacheTotal counts prediction cache lookups.
// Label:
//   - result: "hit" or "miss"
var PredictionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_cache_total",
		Help:      "Total number of prediction cache lookups, by result.",
	},
	[]string{"result"},
)
