package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameRateLimited,
			Help: HelpTextRateLimited,
		},
		[]string{LabelPath},
	)
)

// Business Metrics
var (
	PointsSynced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsSynced,
			Help: HelpTextPointsSynced,
		},
	)

	ProgressUpdates = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameProgressUpdates,
			Help: HelpTextProgressUpdates,
		},
	)

	UpgradesBought = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameUpgradesBought,
			Help: HelpTextUpgradesBought,
		},
		[]string{LabelItem},
	)

	PointsSpent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsSpent,
			Help: HelpTextPointsSpent,
		},
	)

	TasksClaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTasksClaimed,
			Help: HelpTextTasksClaimed,
		},
		[]string{LabelTask},
	)

	PointsFromTasks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePointsFromTasks,
			Help: HelpTextPointsFromTasks,
		},
	)

	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameUsersRegistered,
			Help: HelpTextUsersRegistered,
		},
	)

	LeaderboardReads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLeaderboardReads,
			Help: HelpTextLeaderboardReads,
		},
		[]string{LabelCache},
	)
)

// Session Metrics
var (
	Taps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTaps,
			Help: HelpTextTaps,
		},
	)

	TapsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameTapsRejected,
			Help: HelpTextTapsRejected,
		},
	)

	EarningsFlushes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEarningsFlushes,
			Help: HelpTextEarningsFlushes,
		},
		[]string{LabelResult},
	)

	EarningsFlushedPoints = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEarningsFlushedPoint,
			Help: HelpTextEarningsFlushedPoint,
		},
	)
)
