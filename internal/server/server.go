// Package server exposes the register solver over HTTP.
//
// Every route answers GET only and passes through the same middleware
// chain: security headers and CORS, the per-IP rate limit, request logging
// and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/adfcalc/internal/config"
	apperrors "github.com/agbru/adfcalc/internal/errors"
	"github.com/agbru/adfcalc/internal/logging"
	"github.com/agbru/adfcalc/internal/service"
	"github.com/agbru/adfcalc/internal/synth"
)

// Server is the HTTP front end of a service.Service.
type Server struct {
	limits         synth.Limits
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

type route struct {
	path    string
	usage   string
	handler http.HandlerFunc
}

func (s *Server) routes() []route {
	return []route{
		{"/solve", "GET /solve?ref=<Hz>&rf=<Hz>", s.handleSolve},
		{"/sweep", "GET /sweep?refstart=<Hz>&steps=<n>&rf=<Hz>", s.handleSweep},
		{"/limits", "GET /limits", s.handleLimits},
		{"/health", "GET /health", s.handleHealth},
		{"/metrics", "GET /metrics", s.handleMetrics},
	}
}

// NewServer builds a server for the given chip limits. cfg supplies the
// port and the sweep worker count; opts override the defaults.
func NewServer(limits synth.Limits, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		limits:         limits,
		cfg:            cfg,
		logger:         logging.NewLogger(os.Stdout, "server"),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.service == nil {
		s.service = service.NewSolverService(s.limits, s.cfg.Workers, s.securityConfig.MaxSweepSteps)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = NewRateLimiter(DefaultRateLimiterConfig())
	}

	mux := http.NewServeMux()
	for _, rt := range s.routes() {
		mux.HandleFunc(rt.path, s.wrapWithMiddleware(rt.handler))
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// wrapWithMiddleware applies, from the outside in: security, rate limit,
// logging, metrics.
func (s *Server) wrapWithMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(handler)
	wrapped = s.loggingMiddleware(wrapped)
	wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	return SecurityMiddleware(s.securityConfig, wrapped)
}

// Start serves until ctx is done or the process receives SIGINT or
// SIGTERM, then drains in-flight requests for at most ShutdownTimeout.
// A port that cannot be bound is reported immediately as a ServerError.
func (s *Server) Start(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("starting server",
		logging.String("addr", ln.Addr().String()),
		logging.Int("workers", s.cfg.Workers),
		logging.Int64("max_sweep_steps", s.securityConfig.MaxSweepSteps))
	for _, rt := range s.routes() {
		s.logger.Printf("  %s", rt.usage)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down", logging.Err(context.Cause(ctx)))
	case err := <-errCh:
		return apperrors.NewServerError("server stopped unexpectedly", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
