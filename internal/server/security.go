package server

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jonboulle/clockwork"

	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/metrics"
)

// writeJSONError matches the handler error body so clients parse one shape
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// isPublicPath matches exact entries, or any path under entries ending in "/"
func isPublicPath(path string) bool {
	for _, p := range PublicPaths {
		if path == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}

// AuthMiddleware validates the API key on every non-public path
func AuthMiddleware(apiKey string, ips *ClientIPResolver, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			providedKey := r.Header.Get(HeaderAPIKey)
			if apiKey == "" || subtle.ConstantTimeCompare([]byte(providedKey), []byte(apiKey)) != 1 {
				ip := ips.ClientIP(r)
				detector.RecordFailedAuth(ip)

				logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
					"path", r.URL.Path,
					"has_key", providedKey != "",
					"ip", ip)

				writeJSONError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimitMiddleware limits request body size
func RequestSizeLimitMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIPResolver picks the client address, honouring X-Forwarded-For only
// when the direct peer is a trusted proxy.
type ClientIPResolver struct {
	trusted []netip.Prefix
}

// NewClientIPResolver accepts bare IPs or CIDRs. Unparseable entries are
// logged and skipped.
func NewClientIPResolver(trustedProxies []string) *ClientIPResolver {
	res := &ClientIPResolver{}
	for _, raw := range trustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			res.trusted = append(res.trusted, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			slog.Warn(LogMsgBadTrustedProxy, "value", raw)
			continue
		}
		res.trusted = append(res.trusted, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return res
}

func (c *ClientIPResolver) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range c.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ClientIP returns the rightmost forwarded hop behind a trusted proxy,
// otherwise the peer address.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	if c != nil && c.isTrusted(remoteIP) {
		if forwarded := r.Header.Get(HeaderForwardedFor); forwarded != "" {
			hops := strings.Split(forwarded, ",")
			if last := strings.TrimSpace(hops[len(hops)-1]); last != "" {
				return last
			}
		}
	}
	return remoteIP
}

type ipWindow struct {
	start      time.Time
	requests   int
	failedAuth int
}

// SuspiciousActivityDetector counts requests and failed auth per IP over a
// fixed window that starts at the IP's first request.
type SuspiciousActivityDetector struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	windows *expirable.LRU[string, *ipWindow]
}

func NewSuspiciousActivityDetector(clock clockwork.Clock) *SuspiciousActivityDetector {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SuspiciousActivityDetector{
		clock:   clock,
		windows: expirable.NewLRU[string, *ipWindow](detectorCacheSize, nil, DetectorWindow),
	}
}

// window returns the live window for ip. Caller must hold the mutex.
func (s *SuspiciousActivityDetector) window(ip string) *ipWindow {
	now := s.clock.Now()
	w, ok := s.windows.Get(ip)
	if !ok || now.Sub(w.start) > DetectorWindow {
		w = &ipWindow{start: now}
		s.windows.Add(ip, w)
	}
	return w
}

// RecordFailedAuth records a failed authentication attempt
func (s *SuspiciousActivityDetector) RecordFailedAuth(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.window(ip)
	w.failedAuth++
	if w.failedAuth >= DetectorFailedAuthAlert {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", w.failedAuth)
	}
}

// RecordRequest records a request and returns false once the IP is over the window limit
func (s *SuspiciousActivityDetector) RecordRequest(ip string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := s.window(ip)
	w.requests++
	if w.requests <= DetectorMaxRequests {
		return true
	}
	if w.requests%DetectorHighRateLogEvery == 0 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", w.requests)
	}
	return false
}

func (s *SuspiciousActivityDetector) requestCount(ip string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.windows.Peek(ip); ok {
		return w.requests
	}
	return 0
}

// SecurityLoggingMiddleware enforces the per-IP request ceiling
func SecurityLoggingMiddleware(ips *ClientIPResolver, detector *SuspiciousActivityDetector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !detector.RecordRequest(ips.ClientIP(r)) {
				metrics.RateLimited.WithLabelValues(rateLimitLabelGlobal).Inc()
				writeJSONError(w, http.StatusTooManyRequests, ErrMsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeadersMiddleware adds security headers to responses
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set(HeaderContentType, HeaderValueNoSniff)
			h.Set(HeaderFrameOptions, HeaderValueSameOrigin)
			h.Set(HeaderXSSProtection, HeaderValueXSSBlock)
			h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
			next.ServeHTTP(w, r)
		})
	}
}
