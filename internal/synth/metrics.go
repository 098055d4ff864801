package synth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	solvesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adfcalc_solves_total",
			Help: "Number of completed register searches by kind and resulting mode.",
		},
		[]string{"kind", "mode"},
	)

	solveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adfcalc_solve_duration_seconds",
			Help:    "Duration of register searches.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"kind"},
	)

	sweepReferencesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adfcalc_sweep_references_total",
			Help: "Number of reference frequencies evaluated by sweeps.",
		},
	)
)

func recordSolve(kind string, res Result, d time.Duration) {
	solvesTotal.WithLabelValues(kind, res.Mode.String()).Inc()
	solveDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func recordSweep(res SweepResult, d time.Duration) {
	recordSolve("sweep", res.Result, d)
	sweepReferencesTotal.Add(float64(res.Evaluated))
}
