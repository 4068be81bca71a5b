package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("wellness.profile")

var (
	// completionsTotal counts session completions by outcome.
	completionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wellness_profile_completions_total",
		Help: "Session completions applied to the profile, by result",
	}, []string{"result"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wellness_profile_sync_duration_seconds",
		Help:    "Duration of the record-append plus profile read-modify-write sequence",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
	})

	recordAppendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellness_session_record_append_failures_total",
		Help: "Session record appends that failed before the profile update",
	})

	snapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wellness_profile_snapshots_total",
		Help: "Profile snapshots mirrored from the live subscription",
	})

	activeSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wellness_profile_subscriptions_active",
		Help: "Profile subscriptions currently running (0 or 1)",
	})
)
