package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
	MetricNameRateLimited          = "http_rate_limited_total"
)

// Business metric names
const (
	MetricNamePointsSynced     = "points_synced_total"
	MetricNameProgressUpdates  = "progress_updates_total"
	MetricNameUpgradesBought   = "upgrades_bought_total"
	MetricNamePointsSpent      = "points_spent_total"
	MetricNameTasksClaimed     = "tasks_claimed_total"
	MetricNamePointsFromTasks  = "points_from_tasks_total"
	MetricNameUsersRegistered  = "users_registered_total"
	MetricNameLeaderboardReads = "leaderboard_reads_total"
)

// Session metric names
const (
	MetricNameTaps                 = "session_taps_total"
	MetricNameTapsRejected         = "session_taps_rejected_total"
	MetricNameEarningsFlushes      = "session_earnings_flushes_total"
	MetricNameEarningsFlushedPoint = "session_earnings_flushed_points_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
	HelpTextRateLimited          = "Total number of requests rejected by the rate limiter"
)

// Business metric help text
const (
	HelpTextPointsSynced     = "Total points added to balances by progress updates"
	HelpTextProgressUpdates  = "Total number of accepted progress updates"
	HelpTextUpgradesBought   = "Total number of upgrades purchased"
	HelpTextPointsSpent      = "Total points spent on upgrades"
	HelpTextTasksClaimed     = "Total number of social tasks claimed"
	HelpTextPointsFromTasks  = "Total points awarded by social tasks"
	HelpTextUsersRegistered  = "Total number of users registered"
	HelpTextLeaderboardReads = "Total number of leaderboard reads by cache outcome"
)

// Session metric help text
const (
	HelpTextTaps                 = "Total number of accepted tap events"
	HelpTextTapsRejected         = "Total number of tap events rejected by the energy gate or input checks"
	HelpTextEarningsFlushes      = "Total number of earnings flushes by result"
	HelpTextEarningsFlushedPoint = "Total points confirmed by successful earnings flushes"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod = "method"
	LabelPath   = "path"
	LabelStatus = "status"
	LabelItem   = "item"
	LabelTask   = "task"
	LabelResult = "result"
	LabelCache  = "cache"
)

// Cache outcome label values
const (
	CacheHit  = "hit"
	CacheMiss = "miss"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// unmatchedRoute labels requests that did not match any registered route
const unmatchedRoute = "unmatched"
