package server

import (
	"net/http"
	"time"

	"github.com/agbru/adfcalc/internal/logging"
)

// loggingMiddleware logs the method, path, client address and duration of
// each request.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next(w, r)

		s.logger.Info("request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("query", r.URL.RawQuery),
			logging.String("remote", getClientIP(r)),
			logging.Duration("duration", time.Since(start)))
	}
}
