package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-perfecto/internal/db"
	"github.com/jonathan/cv-perfecto/internal/logger"
	"github.com/jonathan/cv-perfecto/internal/server/middleware"
	"github.com/jonathan/cv-perfecto/internal/server/ratelimit"
	"github.com/jonathan/cv-perfecto/internal/types"
)

// Config holds server configuration
type Config struct {
	Port           int
	AllowedOrigins string
}

// Server is the HTTP API.
type Server struct {
	httpServer  *http.Server
	rateLimiter *ratelimit.Limiter
	tokens      middleware.TokenValidator
	auth        *AuthHandler
	resumes     *ResumeHandler
	origins     string
}

// New wires the handlers into a server. limiter may be nil to disable rate
// limiting.
func New(cfg Config, auth *AuthHandler, resumes *ResumeHandler, tokens middleware.TokenValidator, limiter *ratelimit.Limiter) *Server {
	origins := cfg.AllowedOrigins
	if origins == "" {
		origins = "*"
	}
	s := &Server{
		rateLimiter: limiter,
		tokens:      tokens,
		auth:        auth,
		resumes:     resumes,
		origins:     origins,
	}
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Minute, // model calls are slow
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	authed := middleware.AuthMiddleware(s.tokens)
	member := middleware.RequireRole(string(db.RoleUser), string(db.RoleAdmin))
	protect := func(h http.HandlerFunc) http.Handler {
		return authed(member(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/register", s.auth.Register)
	mux.HandleFunc("POST /api/users/login", s.auth.Login)
	mux.Handle("GET /api/users/me", authed(http.HandlerFunc(s.auth.Me)))

	mux.HandleFunc("GET /api/resume/health", s.resumes.Health)
	mux.HandleFunc("GET /api/resume/formats", s.resumes.Formats)
	mux.Handle("POST /api/resume/optimize", protect(s.resumes.Optimize))
	mux.Handle("POST /api/resume/optimize/stream", protect(s.resumes.OptimizeStream))
	mux.Handle("GET /api/resume/my-resumes", protect(s.resumes.MyResumes))
	mux.Handle("GET /api/resume/{id}", protect(s.resumes.Get))
	mux.Handle("GET /api/resume/{id}/download", protect(s.resumes.Download))

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		jsonResponse(w, http.StatusNotFound, types.Failure("Route not found"))
	})

	return s.withLogging(s.withRateLimit(s.withCORS(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.httpServer.Addr).Msg("server starting")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	logger.Info().Msg("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.origins)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withRateLimit rejects requests over the client's budget with 429.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	if s.rateLimiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		if info.Limit > 0 {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
		}
		if !allowed {
			if info.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(info.RetryAfter.Seconds())+1))
			}
			logger.Ctx(r.Context()).Warn().Str("client", clientID(r)).Str("path", r.URL.Path).Msg("rate limit exceeded")
			jsonResponse(w, http.StatusTooManyRequests, types.Failure("Rate limit exceeded. Please try again later."))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging attaches a request-scoped logger and logs each request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		l := logger.With("request_id", requestID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), l)))

		l.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// clientID identifies the caller by remote IP.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush keeps SSE working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
