package synth

import (
	"math"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ProgressUpdate is one progress sample of a sweep. Index tells concurrent
// sweeps apart, Value is the evaluated fraction of the reference window.
type ProgressUpdate struct {
	Index int
	Value float64
}

// ProgressObserver receives sweep progress. Sweep workers call Update from
// their own goroutines.
type ProgressObserver interface {
	Update(index int, progress float64)
}

// ProgressSubject broadcasts each update to its registered observers in
// registration order. It satisfies ProgressObserver itself.
type ProgressSubject struct {
	mu        sync.RWMutex
	observers []ProgressObserver
}

func NewProgressSubject() *ProgressSubject {
	return &ProgressSubject{}
}

// Register appends o. A nil observer is ignored.
func (s *ProgressSubject) Register(o ProgressObserver) {
	if o == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, o)
	s.mu.Unlock()
}

func (s *ProgressSubject) Update(index int, progress float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.observers {
		o.Update(index, progress)
	}
}

func (s *ProgressSubject) ObserverCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.observers)
}

// ChannelObserver feeds the terminal progress display. Sends never block:
// when the buffer is full the sample is dropped and the next one catches up.
type ChannelObserver struct {
	ch chan<- ProgressUpdate
}

func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

func (o *ChannelObserver) Update(index int, progress float64) {
	if o.ch == nil {
		return
	}
	select {
	case o.ch <- ProgressUpdate{Index: index, Value: math.Min(progress, 1)}:
	default:
	}
}

// LoggingObserver writes a debug line each time a sweep crosses another
// multiple of threshold, plus the first sample and completion.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64

	mu    sync.Mutex
	steps map[int]int // last logged step per sweep, -1 once complete
}

// NewLoggingObserver logs every threshold fraction of progress; a
// non-positive threshold means every 10%.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{logger: logger, threshold: threshold, steps: map[int]int{}}
}

func (o *LoggingObserver) Update(index int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	step := int(progress / o.threshold)
	last, seen := o.steps[index]
	switch {
	case seen && last < 0:
		return
	case progress >= 1:
		step = -1
	case seen && step <= last:
		return
	case !seen && progress <= 0:
		return
	}
	o.steps[index] = step

	o.logger.Debug().
		Int("sweep", index).
		Float64("progress", progress).
		Str("percent", strconv.FormatFloat(progress*100, 'f', 1, 64)+"%").
		Msg("sweep progress")
}

var sweepProgressGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "adfcalc_sweep_progress",
		Help: "Fraction of the reference window evaluated by running sweeps.",
	},
	[]string{"sweep_index"},
)

// MetricsObserver mirrors progress into the adfcalc_sweep_progress gauge.
type MetricsObserver struct {
	gauge *prometheus.GaugeVec
}

func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{gauge: sweepProgressGauge}
}

func (o *MetricsObserver) Update(index int, progress float64) {
	o.gauge.WithLabelValues(strconv.Itoa(index)).Set(progress)
}

// NoOpObserver discards updates.
type NoOpObserver struct{}

func NewNoOpObserver() *NoOpObserver { return &NoOpObserver{} }

func (*NoOpObserver) Update(int, float64) {}
