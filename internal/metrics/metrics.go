package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Refresh outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeLoggedOut    = "logged_out"
	OutcomeUnauthorized = "unauthorized"
	OutcomeNoTeam       = "no_team"
	OutcomeError        = "error"
	OutcomeStale        = "stale"
)

// Rate snapshot sources.
const (
	SourceCache    = "cache"
	SourceFetched  = "fetched"
	SourceFallback = "fallback"
)

var (
	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cspend_refresh_total",
			Help: "Refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cspend_refresh_duration_seconds",
			Help:    "Duration of refresh cycles",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RefreshCoalesced counts triggers dropped because a cycle was already running.
	RefreshCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cspend_refresh_coalesced_total",
			Help: "Refresh triggers ignored while a cycle was in flight",
		},
	)

	FXSnapshotTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cspend_fx_snapshot_total",
			Help: "Exchange rate snapshots by source (cache, fetched, fallback)",
		},
		[]string{"source"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cspend_notifications_total",
			Help: "Threshold notifications fired by level",
		},
		[]string{"level"},
	)

	SpendingUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cspend_spending_usd",
			Help: "Spending for the current month in USD as of the last successful refresh",
		},
	)
)

// RecordRefresh records a finished cycle.
func RecordRefresh(outcome string, seconds float64) {
	RefreshTotal.WithLabelValues(outcome).Inc()
	RefreshDuration.Observe(seconds)
}
