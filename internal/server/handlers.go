package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	apperrors "github.com/agbru/adfcalc/internal/errors"
	"github.com/agbru/adfcalc/internal/logging"
	"github.com/agbru/adfcalc/internal/service"
	"github.com/agbru/adfcalc/internal/synth"
	"github.com/agbru/adfcalc/pkg/models"
)

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	}

	s.writeJSONResponse(w, http.StatusOK, response)
}

// handleLimits returns the chip limits applied by the solver.
func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, models.FromLimits(s.service.Limits()))
}

// handleSolve finds the register values for one reference frequency.
// Query parameters: ref and rf, in Hz.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ref, rf, err := parseSolveParams(r)
	if err != nil {
		s.writeJSONResponse(w, http.StatusBadRequest, newErrorResponse(http.StatusBadRequest, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.service.Solve(ctx, ref, rf)
	duration := time.Since(start)
	if err != nil {
		s.writeSolveError(w, err)
		return
	}

	s.writeJSONResponse(w, http.StatusOK, models.FromResult(res, duration))
}

// handleSweep searches references refstart..refstart+steps for the smallest
// frequency error. A sweep interrupted by the request timeout still returns
// its best result so far, with the error field set.
func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	req, err := parseSweepParams(r)
	if err != nil {
		s.writeJSONResponse(w, http.StatusBadRequest, newErrorResponse(http.StatusBadRequest, err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	res, err := s.service.Sweep(ctx, req, s.sweepObserver(req))
	duration := time.Since(start)

	if err != nil && !(apperrors.IsContextError(err) && res.Found()) {
		s.writeSolveError(w, err)
		return
	}

	report := models.FromSweep(res, duration)
	if err != nil {
		report.Error = err.Error()
	}
	s.writeJSONResponse(w, http.StatusOK, report)
}

// sweepObserver exports sweep progress to Prometheus and, when the server
// logs through zerolog, writes a debug line every quarter of the window.
func (s *Server) sweepObserver(req synth.SweepRequest) synth.ProgressObserver {
	subject := synth.NewProgressSubject()
	subject.Register(synth.NewMetricsObserver())
	if z, ok := s.logger.(*logging.ZerologAdapter); ok {
		logger := z.Zerolog().With().Int64("refstart", req.StartHz).Int64("steps", req.Steps).Logger()
		subject.Register(synth.NewLoggingObserver(logger, 0.25))
	}
	return subject
}

// writeSolveError maps a solver error to its HTTP status.
func (s *Server) writeSolveError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMaxStepsExceeded):
		s.writeJSONResponse(w, http.StatusBadRequest, newErrorResponse(http.StatusBadRequest,
			apperrors.NewValidationError("steps", fmt.Sprintf("at most %d steps per sweep", s.securityConfig.MaxSweepSteps), nil)))
	case errors.Is(err, synth.ErrInputOutOfRange):
		s.writeErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		s.writeErrorResponse(w, http.StatusGatewayTimeout, err.Error())
	case errors.Is(err, context.Canceled):
		// The client is gone; the status is only seen by the logs.
		s.writeErrorResponse(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("solve failed", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// parseSolveParams extracts the reference and output frequencies.
//
// Returns:
//   - ref, rf: The parsed frequencies in Hz.
//   - err: A ValidationError if a parameter is missing or malformed.
func parseSolveParams(r *http.Request) (ref, rf float64, err error) {
	q := r.URL.Query()
	if ref, err = parseHzParam(q.Get("ref"), "ref"); err != nil {
		return 0, 0, err
	}
	if rf, err = parseHzParam(q.Get("rf"), "rf"); err != nil {
		return 0, 0, err
	}
	return ref, rf, nil
}

// parseSweepParams extracts refstart, steps and rf. A missing steps
// parameter sweeps the start frequency alone.
func parseSweepParams(r *http.Request) (synth.SweepRequest, error) {
	q := r.URL.Query()

	startStr := q.Get("refstart")
	if startStr == "" {
		return synth.SweepRequest{}, apperrors.NewValidationError("refstart", "missing parameter", nil)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start <= 0 {
		return synth.SweepRequest{}, apperrors.NewValidationError("refstart", "must be a positive integer (Hz)", startStr)
	}

	var steps int64
	if stepsStr := q.Get("steps"); stepsStr != "" {
		steps, err = strconv.ParseInt(stepsStr, 10, 64)
		if err != nil || steps < 0 {
			return synth.SweepRequest{}, apperrors.NewValidationError("steps", "must be a non-negative integer", stepsStr)
		}
	}

	rf, err := parseHzParam(q.Get("rf"), "rf")
	if err != nil {
		return synth.SweepRequest{}, err
	}

	return synth.SweepRequest{StartHz: start, Steps: steps, OutputHz: rf}, nil
}

// parseHzParam parses a finite, positive frequency. Range checks are left
// to the solver so that they are reported as 422.
func parseHzParam(value, field string) (float64, error) {
	if value == "" {
		return 0, apperrors.NewValidationError(field, "missing parameter", nil)
	}
	hz, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(hz) || math.IsInf(hz, 0) || hz <= 0 {
		return 0, apperrors.NewValidationError(field, "must be a positive number (Hz)", value)
	}
	return hz, nil
}

// writeJSONResponse writes data as JSON with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Printf("Error encoding JSON response: %v", err)
	}
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, ErrorResponse{Error: http.StatusText(statusCode), Message: message})
}
