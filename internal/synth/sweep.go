package synth

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Window is the effective range of reference frequencies visited by a sweep,
// after clamping to the chip limits. Both ends are inclusive.
type Window struct {
	RequestedStartHz int64
	StartHz          int64
	EndHz            int64
	Steps            int64
}

// Shifted reports whether clamping moved the start of the window.
func (w Window) Shifted() bool { return w.StartHz != w.RequestedStartHz }

// Len returns the number of candidate references in the window.
func (w Window) Len() int64 { return w.EndHz - w.StartHz + 1 }

// ClampWindow fits [startHz, startHz+steps] into the reference range.
//
// A window running past the maximum reference is shifted down so that it ends
// on the maximum; a start below the minimum reference is then raised to the
// minimum. When steps is wider than the whole reference range the end is
// capped at the maximum reference.
func ClampWindow(startHz, steps int64, limits Limits) (Window, error) {
	if steps < 0 {
		return Window{}, fmt.Errorf("%w: step count %d is negative", ErrInputOutOfRange, steps)
	}
	lo, hi := limits.referenceWindow()

	start := startHz
	if start > hi-steps {
		start = hi - steps
	}
	if start < lo {
		start = lo
	}
	end := hi
	if steps <= hi-start {
		end = start + steps
	}
	return Window{RequestedStartHz: startHz, StartHz: start, EndHz: end, Steps: steps}, nil
}

// SweepRequest describes a reference sweep.
type SweepRequest struct {
	// StartHz is the first reference frequency, in whole Hz.
	StartHz int64
	// Steps is the number of 1 Hz increments after StartHz.
	Steps int64
	// OutputHz is the desired RF output frequency.
	OutputHz float64
}

// SweepOptions tunes how a sweep runs. The zero value is valid.
type SweepOptions struct {
	// Workers bounds the number of references evaluated concurrently.
	// Zero or negative means runtime.NumCPU().
	Workers int
	// Observer receives progress in [0, 1]. Nil disables reporting.
	Observer ProgressObserver
	// Index identifies this sweep in progress updates.
	Index int
}

// SweepResult is the best solution of a sweep together with the window that
// was actually searched.
type SweepResult struct {
	Result
	Window Window
	// Evaluated counts the references that were solved.
	Evaluated int64
}

// Sweep solves every reference frequency in the clamped window and keeps the
// solution with the smallest absolute error, the lowest reference winning a
// tie. An exact solution ends the sweep: references above the lowest exact
// hit are not evaluated. The outcome does not depend on the worker count.
//
// When ctx is canceled the best solution found so far is returned together
// with the wrapped context error.
func Sweep(ctx context.Context, req SweepRequest, limits Limits, opts SweepOptions) (SweepResult, error) {
	started := time.Now()
	band, err := Normalize(req.OutputHz, limits)
	if err != nil {
		return SweepResult{}, err
	}
	win, err := ClampWindow(req.StartHz, req.Steps, limits)
	if err != nil {
		return SweepResult{}, err
	}

	total := win.Len()
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if int64(workers) > total {
		workers = int(total)
	}
	observer := opts.Observer
	if observer == nil {
		observer = NewNoOpObserver()
	}

	var (
		next        atomic.Int64
		done        atomic.Int64
		lowestExact atomic.Int64
		mu          sync.Mutex
		best        = newAccumulator()
	)
	lowestExact.Store(total)
	reportEvery := max(total/100, 1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for range workers {
		g.Go(func() error {
			local := newAccumulator()
			defer func() {
				if res, ok := local.result(); ok {
					mu.Lock()
					best.merge(res)
					mu.Unlock()
				}
			}()

			for {
				if err := gctx.Err(); err != nil {
					return err
				}
				i := next.Add(1) - 1
				if i >= total || i > lowestExact.Load() {
					return nil
				}

				res := solveReference(float64(win.StartHz+i), band, limits)
				local.merge(res)
				if res.Exact() {
					lowerTo(&lowestExact, i)
				}
				if d := done.Add(1); d%reportEvery == 0 {
					observer.Update(opts.Index, float64(d)/float64(total))
				}
			}
		})
	}
	err = g.Wait()

	out := SweepResult{Window: win, Evaluated: done.Load()}
	if res, ok := best.result(); ok {
		out.Result = res
	} else {
		out.Result = Result{
			Mode:         ModeNoSolution,
			DividerPower: band.DividerPower,
			Prescaler:    band.Prescaler,
			OutputHz:     band.OutputHz,
			VCOHz:        band.VCOHz,
		}
	}
	recordSweep(out, time.Since(started))

	if err != nil {
		return out, fmt.Errorf("sweep stopped after %d of %d references: %w", out.Evaluated, total, err)
	}
	observer.Update(opts.Index, 1.0)
	return out, nil
}

// lowerTo atomically stores v in a if v is smaller than the current value.
func lowerTo(a *atomic.Int64, v int64) {
	for {
		cur := a.Load()
		if v >= cur || a.CompareAndSwap(cur, v) {
			return
		}
	}
}
