// Package http exposes the jar API over JSON. The server embeds
// http.Server and layers security headers, rate limiting and request
// tracing over every route.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"jarify/internal/log"
	"jarify/internal/services"
)

type Server struct {
	http.Server
	jars        *services.JarService
	reports     *services.ReportService
	recurring   *services.RecurringService
	logger      *log.Logger
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, jars *services.JarService, reports *services.ReportService, recurring *services.RecurringService, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		jars:        jars,
		reports:     reports,
		recurring:   recurring,
		logger:      logger,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /jars", s.withMiddleware(s.handleListJars))
	mux.HandleFunc("POST /jars", s.withMiddleware(s.handleCreateJar))
	mux.HandleFunc("GET /jars/{id}", s.withMiddleware(s.handleGetJar))
	mux.HandleFunc("PUT /jars/{id}", s.withMiddleware(s.handleUpdateJar))
	mux.HandleFunc("DELETE /jars/{id}", s.withMiddleware(s.handleDeleteJar))
	mux.HandleFunc("POST /jars/deposit", s.withMiddleware(s.handleDeposit))
	mux.HandleFunc("POST /jars/withdraw", s.withMiddleware(s.handleWithdraw))
	mux.HandleFunc("POST /jars/{id}/pin", s.withMiddleware(s.handleTogglePin))

	mux.HandleFunc("GET /folders", s.withMiddleware(s.handleListFolders))
	mux.HandleFunc("PUT /folders", s.withMiddleware(s.handleReplaceFolders))
	mux.HandleFunc("GET /categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("PUT /categories", s.withMiddleware(s.handleReplaceCategories))
	mux.HandleFunc("GET /notes", s.withMiddleware(s.handleListNotes))
	mux.HandleFunc("PUT /notes", s.withMiddleware(s.handleReplaceNotes))

	mux.HandleFunc("GET /reports/summary", s.withMiddleware(s.handleSummary))
	mux.HandleFunc("GET /reports/plan", s.withMiddleware(s.handlePlan))
	mux.HandleFunc("GET /reports/breakdown", s.withMiddleware(s.handleBreakdown))

	mux.HandleFunc("GET /calc/compound", s.withMiddleware(s.handleCompound))
	mux.HandleFunc("GET /calc/emi", s.withMiddleware(s.handleEMI))
	mux.HandleFunc("GET /calc/months", s.withMiddleware(s.handleMonthsToGoal))

	mux.HandleFunc("GET /settings/darkmode", s.withMiddleware(s.handleGetDarkMode))
	mux.HandleFunc("PUT /settings/darkmode", s.withMiddleware(s.handleSetDarkMode))
	mux.HandleFunc("POST /settings/reset", s.withMiddleware(s.handleReset))

	mux.HandleFunc("POST /recurring/process", s.withMiddleware(s.handleProcessRecurring))

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds security headers, rate limiting and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), log.LoggerContextKey, s.logger.With(log.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		// Mutations are rate limited; reads are not.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		log.LogHTTPEnd(ctx, s.logger, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
