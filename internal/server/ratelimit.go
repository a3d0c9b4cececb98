package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/metrics"
)

// SyncLimiter hands out a token bucket per identity.
// Idle buckets age out of the LRU so memory stays bounded.
type SyncLimiter struct {
	limit   rate.Limit
	burst   int
	clock   clockwork.Clock
	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]
}

// NewSyncLimiter builds a limiter allowing perSec sustained requests with the given burst
func NewSyncLimiter(perSec float64, burst int, clock clockwork.Clock) *SyncLimiter {
	if perSec <= 0 {
		perSec = DefaultSyncRatePerSec
	}
	if burst <= 0 {
		burst = DefaultSyncRateBurst
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SyncLimiter{
		limit:   rate.Limit(perSec),
		burst:   burst,
		clock:   clock,
		buckets: expirable.NewLRU[string, *rate.Limiter](syncLimiterCacheSize, nil, syncLimiterIdleTTL),
	}
}

// Allow consumes one token for identity
func (l *SyncLimiter) Allow(identity string) bool {
	return l.bucket(identity).AllowN(l.clock.Now(), 1)
}

// bucket returns the identity's limiter, creating it on first use
func (l *SyncLimiter) bucket(identity string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.buckets.Get(identity)
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.buckets.Add(identity, lim)
	}
	return lim
}

// retryAfterSeconds is the whole-second wait for one token at the sustained rate
func (l *SyncLimiter) retryAfterSeconds() int {
	return int(math.Ceil(1 / float64(l.limit)))
}

type identityBody struct {
	UserID string `json:"user_id"`
}

// Middleware limits requests per user_id found in the JSON body.
// The body is buffered and restored for the next handler. Bodies without
// a user_id pass through so validation can reject them.
func (l *SyncLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(raw))

		var body identityBody
		if json.Unmarshal(raw, &body) != nil || body.UserID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.WithIdentity(r.Context(), body.UserID)
		if !l.Allow(body.UserID) {
			metrics.RateLimited.WithLabelValues(r.URL.Path).Inc()
			logger.FromContext(ctx).Info(LogMsgSyncRateLimited)
			w.Header().Set(HeaderRetryAfter, strconv.Itoa(l.retryAfterSeconds()))
			writeJSONError(w, http.StatusTooManyRequests, ErrMsgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
