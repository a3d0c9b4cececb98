package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/osse101/TapQuest_Go/internal/database"
	"github.com/osse101/TapQuest_Go/internal/handler"
	"github.com/osse101/TapQuest_Go/internal/leaderboard"
	"github.com/osse101/TapQuest_Go/internal/logger"
	"github.com/osse101/TapQuest_Go/internal/metrics"
	"github.com/osse101/TapQuest_Go/internal/quest"
	"github.com/osse101/TapQuest_Go/internal/shop"
	"github.com/osse101/TapQuest_Go/internal/user"
)

// Options configures the HTTP surface
type Options struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	SyncRatePerSec float64
	SyncRateBurst  int
	// Clock drives the abuse detector and sync limiter; nil uses the real clock
	Clock clockwork.Clock
}

// Services are the application services exposed over HTTP
type Services struct {
	Users       user.Service
	Shop        shop.Service
	Quests      quest.Service
	Leaderboard leaderboard.Service
}

type Server struct {
	httpServer *http.Server
	dbPool     database.Pool
	services   Services
}

// NewServer creates a new Server instance
func NewServer(opts Options, dbPool database.Pool, svc Services) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", opts.Port),
			Handler:           NewRouter(opts, dbPool, svc),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		dbPool:   dbPool,
		services: svc,
	}
}

// NewRouter builds the middleware stack and routes
func NewRouter(opts Options, dbPool database.Pool, svc Services) http.Handler {
	r := chi.NewRouter()

	// Chi middleware executes in order defined (outermost to innermost)
	ips := NewClientIPResolver(opts.TrustedProxies)
	detector := NewSuspiciousActivityDetector(opts.Clock)
	syncLimiter := NewSyncLimiter(opts.SyncRatePerSec, opts.SyncRateBurst, opts.Clock)

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(opts.APIKey, ips, detector))
	r.Use(SecurityLoggingMiddleware(ips, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(handler.DatabaseCheck(dbPool)))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route(APIPrefix, func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			r.Get("/", handler.HandleGetUser(svc.Users))
			r.Get("/profile", handler.HandleGetProfile(svc.Users))
			r.Post("/register", handler.HandleRegisterUser(svc.Users))
			r.With(syncLimiter.Middleware).Post("/update", handler.HandleUpdateUser(svc.Users))
		})

		r.Route("/shop", func(r chi.Router) {
			r.Get("/items", handler.HandleListShop(svc.Shop))
			r.Post("/purchase", handler.HandlePurchase(svc.Shop))
		})

		r.Get("/tasks", handler.HandleListTasks(svc.Quests))
		r.Post("/tasks/claim", handler.HandleClaimTask(svc.Quests))

		r.Get("/leaderboard", handler.HandleLeaderboard(svc.Leaderboard))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
