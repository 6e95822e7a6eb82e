// Package metrics defines and registers all custom Prometheus metrics for
// the HealthyWell telemedicine API. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// load via promauto; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "telemedicine"

// ── Consultation turn metrics ─────────────────────────────────────────────────

// ConsultationTurnsTotal counts user turns appended to consultations.
// Label:
//   - result: "ok" (assistant reply persisted) or "rejected" (not found /
//     not active)
var ConsultationTurnsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "consultation_turns_total",
		Help:      "Total number of consultation user turns, labelled by result.",
	},
	[]string{"result"},
)

// TurnDuration measures a full turn end-to-end: load, persist user message,
// completion call (including retries), persist assistant message.
var TurnDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "turn_duration_seconds",
		Help:      "Duration of a consultation turn from acceptance to persisted assistant reply.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	},
)

// TurnQueueDepth tracks the number of turns waiting in each serializer
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var TurnQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "turn_queue_depth",
		Help:      "Current number of turns pending in each serializer worker channel.",
	},
	[]string{"worker_id"},
)

// ── Completion provider metrics ───────────────────────────────────────────────

// CompletionRequestsTotal counts completion calls by final outcome.
// Label:
//   - outcome: "ok" or "error" (all attempts exhausted or fatal failure)
var CompletionRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_requests_total",
		Help:      "Total number of completion provider calls, labelled by outcome.",
	},
	[]string{"outcome"},
)

// CompletionRetriesTotal counts individual retry decisions.
// Label:
//   - reason: failure class that triggered the retry ("connection",
//     "timeout", "server")
var CompletionRetriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_retries_total",
		Help:      "Total number of completion retries, labelled by failure class.",
	},
	[]string{"reason"},
)

// CompletionFallbacksTotal counts turns answered with a fallback message
// instead of generated text.
// Label:
//   - reason: failure class of the last attempt
var CompletionFallbacksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "completion_fallbacks_total",
		Help:      "Total number of completion calls resolved with a fallback message.",
	},
	[]string{"reason"},
)

// ── Health support metrics ────────────────────────────────────────────────────

// TopicCacheTotal counts topic-label cache lookups.
// Label:
//   - result: "hit" (topic served from cache) or "miss" (topic completion
//     call performed)
var TopicCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "topic_cache_total",
		Help:      "Total number of topic cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
