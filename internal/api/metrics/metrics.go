// Package metrics defines and registers all custom Prometheus metrics for the
// CRM API. It is the single source of truth for metric names, labels, and
// help strings. All metrics register with the default registry via promauto
// at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "crm"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDeniedTotal counts requests rejected by the authorization guard.
// Label:
//   - gate: which gate rejected: "authentication", "role", or "ownership"
var AuthzDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denied_total",
		Help:      "Total number of requests rejected by the authorization guard, by gate.",
	},
	[]string{"gate"},
)

// ── Prospect metrics ──────────────────────────────────────────────────────────

// ProspectsCreatedTotal counts newly created prospects.
// Label:
//   - source: acquisition channel (e.g. "referral"), or "unknown" when absent
var ProspectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prospects_created_total",
		Help:      "Total number of prospects created, by acquisition source.",
	},
	[]string{"source"},
)

// RescoreQueueDepth tracks the current number of prospect ids waiting in each
// rescore worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var RescoreQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rescore_queue_depth",
		Help:      "Current number of prospects pending in each rescore worker channel.",
	},
	[]string{"worker_id"},
)

// RescoreErrorsTotal counts failed asynchronous rescore attempts.
var RescoreErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rescore_errors_total",
		Help:      "Total number of asynchronous rescore attempts that failed.",
	},
)

// ── Score sync metrics ────────────────────────────────────────────────────────

// ScoreSyncScannedTotal counts prospects scanned across all sync passes.
var ScoreSyncScannedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "score_sync_scanned_total",
		Help:      "Total number of prospects scanned by the score synchronizer.",
	},
)

// ScoreSyncUpdatedTotal counts prospects whose cached score was rewritten.
var ScoreSyncUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "score_sync_updated_total",
		Help:      "Total number of prospect scores updated by the score synchronizer.",
	},
)

// ScoreSyncFailuresTotal counts per-record persistence failures during sync.
var ScoreSyncFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "score_sync_failures_total",
		Help:      "Total number of per-record write failures during score sync.",
	},
)

// ScoreSyncDuration measures how long a full sync pass takes end-to-end.
var ScoreSyncDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "score_sync_duration_seconds",
		Help:      "Duration of a full score synchronization pass.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)
