package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizzy_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quizzy_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizzy_quiz_submissions_total",
			Help: "Total number of quiz submissions",
		},
		[]string{"status"}, // status: success/rejected/failure
	)

	SubmissionScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quizzy_quiz_submission_score",
			Help:    "Distribution of submitted quiz scores",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		},
	)

	// Failures that were logged and swallowed after the session row was stored.
	SideEffectFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizzy_submission_side_effect_failures_total",
			Help: "Failures of best-effort steps after a session was recorded",
		},
		[]string{"step"},
	)

	LeaderboardCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizzy_leaderboard_cache_total",
			Help: "Leaderboard cache lookups",
		},
		[]string{"result"}, // hit/miss/error
	)

	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quizzy_ws_connections_current",
			Help: "Current number of open leaderboard websocket connections",
		},
	)

	ReconcileRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizzy_reconcile_runs_total",
			Help: "User aggregate reconcile runs",
		},
		[]string{"status"},
	)
)
