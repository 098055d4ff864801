package server

import (
	"log"
	"time"

	"github.com/agbru/adfcalc/internal/logging"
	"github.com/agbru/adfcalc/internal/service"
)

// Option configures a Server built by NewServer. Options that take a
// pointer or interface ignore nil.
type Option func(*Server)

func WithLogger(logger logging.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStdLogger logs requests as plain text lines instead of JSON.
func WithStdLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logging.NewStdLoggerAdapter(logger)
		}
	}
}

// WithService replaces the SolverService the server would otherwise build
// from its limits, worker count and sweep step cap.
func WithService(svc service.Service) Option {
	return func(s *Server) {
		if svc != nil {
			s.service = svc
		}
	}
}

func WithTimeouts(timeouts Timeouts) Option {
	return func(s *Server) { s.timeouts = timeouts }
}

// WithRateLimiter installs rl in place of the default per-IP budget. The
// server stops it on shutdown.
func WithRateLimiter(rl *RateLimiter) Option {
	return func(s *Server) {
		if rl != nil {
			s.rateLimiter = rl
		}
	}
}

func WithSecurityConfig(config SecurityConfig) Option {
	return func(s *Server) { s.securityConfig = config }
}

// WithMaxSweepSteps caps the steps parameter of /sweep. Zero disables the
// cap.
func WithMaxSweepSteps(maxSteps int64) Option {
	return func(s *Server) { s.securityConfig.MaxSweepSteps = maxSteps }
}

// Timeouts bounds request handling and the HTTP connection.
type Timeouts struct {
	// RequestTimeout limits one solve or sweep. A sweep cut short still
	// answers with its best reference so far.
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	ReadTimeout     time.Duration
	// WriteTimeout must exceed RequestTimeout, or the partial sweep answer
	// is lost.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerTimeouts returns the timeouts used when none are configured.
func DefaultServerTimeouts() Timeouts {
	return Timeouts{
		RequestTimeout:  2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    3 * time.Minute,
		IdleTimeout:     2 * time.Minute,
	}
}
