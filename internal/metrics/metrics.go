// Package metrics defines all custom Prometheus metrics for the customer
// core. It is the single source of truth for metric names, labels, and help
// strings; metrics register themselves with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by result ("success" / "failure").
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts registration attempts by result.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// SessionRestoresTotal counts session restores from durable storage.
// Label:
//   - outcome: "ok", "expired", or "corrupt"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restores from durable storage, by outcome.",
	},
	[]string{"outcome"},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartMutationsTotal counts applied cart mutations.
// Label:
//   - op: "add", "remove", "update", or "clear"
var CartMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_mutations_total",
		Help:      "Total number of applied cart mutations, by operation.",
	},
	[]string{"op"},
)

// ReconciliationsTotal counts cart reconciliation runs.
// Label:
//   - outcome: "synced" or "failed" (skipped runs make no network call and
//     are not counted)
var ReconciliationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_reconciliations_total",
		Help:      "Total number of cart reconciliation runs, by outcome.",
	},
	[]string{"outcome"},
)

// ReconcileDuration measures a successful reconciliation end-to-end, from
// remote fetch to remote push.
var ReconcileDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "cart_reconcile_duration_seconds",
		Help:      "Duration of successful cart reconciliations.",
		Buckets:   prometheus.DefBuckets,
	},
)
