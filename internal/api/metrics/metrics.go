// Package metrics defines and registers all custom Prometheus metrics for
// the members system API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics registered through promauto attach to the default registry at
// package load; the router exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "members"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer token checks performed by the
// access guard on protected paths.
// Label:
//   - result: "success", "invalid", "expired", or "missing"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of access token verifications, by result.",
	},
	[]string{"result"},
)

// ── Password reset metrics ────────────────────────────────────────────────────

// ResetTokensIssuedTotal counts successfully issued password reset tokens.
var ResetTokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_issued_total",
		Help:      "Total number of password reset tokens issued.",
	},
)

// ResetTokensConsumedTotal counts redemption attempts of reset tokens.
// Label:
//   - result: "consumed" or "rejected"
var ResetTokensConsumedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reset_tokens_consumed_total",
		Help:      "Total number of reset token redemption attempts, by result.",
	},
	[]string{"result"},
)

// ── Hash pool metrics ─────────────────────────────────────────────────────────

// HashQueueDepth tracks the number of KDF jobs waiting in the hash pool's
// job channel.
var HashQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_queue_depth",
		Help:      "Current number of password hashing jobs pending in the worker pool.",
	},
)

// HashJobDuration measures how long a single hash or verify job takes from
// enqueue to completion.
// Label:
//   - op: "hash" or "verify"
var HashJobDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hash_job_duration_seconds",
		Help:      "Duration of password hashing jobs from enqueue to completion.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"op"},
)
