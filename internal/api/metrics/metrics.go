// Package metrics defines and registers all custom Prometheus metrics for the
// document vault API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry on
// import via promauto; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "docuvault"

// ── Document metrics ──────────────────────────────────────────────────────────

// DocumentsUploadedTotal counts successfully stored documents.
// Label:
//   - scheme: the taxonomy scheme the document was filed under
var DocumentsUploadedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_uploaded_total",
		Help:      "Total number of documents uploaded, by scheme.",
	},
	[]string{"scheme"},
)

// DocumentDeletesTotal counts single-document deletions by outcome.
// Label:
//   - result: "ok", "blob_failed" (metadata kept), or "residue" (blob gone,
//     metadata record left dangling)
var DocumentDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "document_deletes_total",
		Help:      "Total number of document delete attempts, by outcome.",
	},
	[]string{"result"},
)

// CascadeDeletesTotal counts bulk owner deletions.
// Label:
//   - result: "full" (every blob removed) or "partial" (at least one blob
//     deletion failed and only the metadata was cleaned)
var CascadeDeletesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cascade_deletes_total",
		Help:      "Total number of owner-level cascade deletions, by outcome.",
	},
	[]string{"result"},
)

// SignedURLsIssuedTotal counts pre-signed download URLs handed out.
var SignedURLsIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signed_urls_issued_total",
		Help:      "Total number of pre-signed download URLs issued.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthRejectionsTotal counts requests rejected by the access gate.
// Label:
//   - reason: "missing_token", "invalid_token", "unknown_user",
//     "role_mismatch", or "not_admin"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by the access gate, by reason.",
	},
	[]string{"reason"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification delivery attempts that finished.
// Label:
//   - result: "sent" or "failed" (after exhausting retries)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notification deliveries, by final result.",
	},
	[]string{"result"},
)
