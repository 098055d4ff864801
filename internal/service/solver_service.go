package service

//go:generate mockgen -source=solver_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/adfcalc/internal/synth"
)

var (
	// ErrMaxStepsExceeded is returned when a sweep is wider than the
	// configured maximum.
	ErrMaxStepsExceeded = errors.New("maximum sweep steps exceeded")
)

const tracerName = "github.com/agbru/adfcalc/internal/service"

// Service defines the register solving operations used by the HTTP handlers
// and the batch runner. It decouples them from the synth package.
type Service interface {
	// Solve finds the register values for one reference frequency.
	Solve(ctx context.Context, refHz, outputHz float64) (synth.Result, error)
	// Sweep searches a range of reference frequencies.
	Sweep(ctx context.Context, req synth.SweepRequest, observer synth.ProgressObserver) (synth.SweepResult, error)
	// Limits returns the chip limits applied by the service.
	Limits() synth.Limits
}

// SolverService implements Service on top of the synth package.
type SolverService struct {
	limits   synth.Limits
	workers  int
	maxSteps int64
	tracer   trace.Tracer
}

// Ensure SolverService implements Service interface.
var _ Service = (*SolverService)(nil)

// NewSolverService creates a service. workers bounds sweep concurrency
// (0 for NumCPU) and maxSteps caps sweep width (0 for no limit).
//
// Spans are reported to the global OpenTelemetry tracer provider, which is
// a no-op until the program installs one.
func NewSolverService(limits synth.Limits, workers int, maxSteps int64) *SolverService {
	return &SolverService{
		limits:   limits,
		workers:  workers,
		maxSteps: maxSteps,
		tracer:   otel.Tracer(tracerName),
	}
}

// Solve validates the request and runs the integer then fractional search.
// A request whose context is already done is not started.
func (s *SolverService) Solve(ctx context.Context, refHz, outputHz float64) (res synth.Result, err error) {
	ctx, span := s.tracer.Start(ctx, "Solve", trace.WithAttributes(
		attribute.Float64("adf.reference_hz", refHz),
		attribute.Float64("adf.output_hz", outputHz),
	))
	defer func() { endSpan(span, res, err) }()

	if err := ctx.Err(); err != nil {
		return synth.Result{}, err
	}
	return synth.Solve(refHz, outputHz, s.limits)
}

// Sweep enforces the step cap and runs the reference sweep.
func (s *SolverService) Sweep(ctx context.Context, req synth.SweepRequest, observer synth.ProgressObserver) (res synth.SweepResult, err error) {
	ctx, span := s.tracer.Start(ctx, "Sweep", trace.WithAttributes(
		attribute.Int64("adf.sweep.start_hz", req.StartHz),
		attribute.Int64("adf.sweep.steps", req.Steps),
		attribute.Float64("adf.output_hz", req.OutputHz),
	))
	defer func() {
		span.SetAttributes(attribute.Float64("adf.reference_hz", res.ReferenceHz))
		endSpan(span, res.Result, err)
	}()

	if s.maxSteps > 0 && req.Steps > s.maxSteps {
		return synth.SweepResult{}, fmt.Errorf("%w: %d > %d", ErrMaxStepsExceeded, req.Steps, s.maxSteps)
	}
	return synth.Sweep(ctx, req, s.limits, synth.SweepOptions{Workers: s.workers, Observer: observer})
}

// Limits returns the chip limits applied by the service.
func (s *SolverService) Limits() synth.Limits { return s.limits }

func endSpan(span trace.Span, res synth.Result, err error) {
	span.SetAttributes(
		attribute.String("adf.mode", res.Mode.String()),
		attribute.Float64("adf.error_hz", res.FrequencyErrorHz),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
