// Package metrics provides Prometheus metrics for kudos.
// Counters cover every decision the engines make so operators can see how
// often cooldowns, caps and template fallbacks kick in.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Evaluation ─────────────────────────────────────────────────────────────

// EvaluationLatency tracks full request evaluation time (both engines).
var EvaluationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "kudos",
	Name:      "evaluation_latency_seconds",
	Help:      "Time to evaluate one social nudge request.",
	Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
})

// ClassifierVerdicts counts raw classifier outputs.
var ClassifierVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "classifier_verdicts_total",
	Help:      "Classifier outputs by verdict (0 or 1).",
}, []string{"verdict"})

// ─── Compliments ────────────────────────────────────────────────────────────

// ComplimentsIssued counts compliments returned to callers.
var ComplimentsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "compliments_issued_total",
	Help:      "Compliments issued by reason and priority.",
}, []string{"reason", "priority"})

// ComplimentsSuppressed counts compliments withheld after a rule matched.
var ComplimentsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "compliments_suppressed_total",
	Help:      "Compliments withheld, by cause (cooldown, low_signal, no_feature).",
}, []string{"cause"})

// ─── Nudges ─────────────────────────────────────────────────────────────────

// NudgesIssued counts buddy nudges returned to callers.
var NudgesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "nudges_issued_total",
	Help:      "Buddy nudges issued by primary reason and priority.",
}, []string{"primary_reason", "priority"})

// NudgeCapApplied counts evaluations where the per-user nudge cap trimmed output.
var NudgeCapApplied = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "nudge_cap_applied_total",
	Help:      "Evaluations where max_nudges_per_user trimmed the nudge list.",
})

// NudgeCooldownHits counts evaluations skipped by the per-user nudge cooldown.
var NudgeCooldownHits = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "nudge_cooldown_hits_total",
	Help:      "Evaluations that returned no nudges because of the cooldown.",
})

// ─── Templates ──────────────────────────────────────────────────────────────

// TemplateFallbacks counts messages built from the generic fallback text.
var TemplateFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "template_fallbacks_total",
	Help:      "Messages that fell back to the generic text, by kind.",
}, []string{"kind"})

// ─── Popular Tags ───────────────────────────────────────────────────────────

// PopularTagUpdates counts popular-tag update attempts by result.
var PopularTagUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "kudos",
	Name:      "popular_tag_updates_total",
	Help:      "Popular-tag update attempts by result (ok, error).",
}, []string{"result"})

// PopularTagsSize tracks the number of tags in the live table.
var PopularTagsSize = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "kudos",
	Name:      "popular_tags",
	Help:      "Number of entries in the popular-tag table.",
})

// ─── Health ─────────────────────────────────────────────────────────────────

// HealthCheckStatus tracks health check results (1=healthy, 0=unhealthy).
var HealthCheckStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "kudos",
	Name:      "health_check_status",
	Help:      "Health check result per component (1=healthy, 0=unhealthy).",
}, []string{"check"})
