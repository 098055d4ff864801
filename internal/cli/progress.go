package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/agbru/adfcalc/internal/synth"
	"github.com/briandowns/spinner"
)

const (
	ProgressRefreshRate = 200 * time.Millisecond
	ProgressBarWidth    = 40

	// maxETA caps estimates produced from a near-zero rate.
	maxETA = 24 * time.Hour
)

// Spinner is the part of briandowns/spinner that DisplayProgress drives.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct{ s *spinner.Spinner }

func (r realSpinner) Start() { r.s.Start() }
func (r realSpinner) Stop()  { r.s.Stop() }

func (r realSpinner) UpdateSuffix(suffix string) {
	r.s.Lock()
	r.s.Suffix = suffix
	r.s.Unlock()
}

// newSpinner is replaced in tests.
var newSpinner = func(opts ...spinner.Option) Spinner {
	return realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, opts...)}
}

// ProgressTracker averages the progress of concurrent sweeps and estimates
// the time left from an exponentially smoothed rate. It is owned by a single
// goroutine.
type ProgressTracker struct {
	values []float64
	now    func() time.Time

	start    time.Time
	lastAt   time.Time
	lastMean float64
	rate     float64 // mean progress per second
}

func NewProgressTracker(sweeps int) *ProgressTracker {
	return newProgressTracker(sweeps, time.Now)
}

func newProgressTracker(sweeps int, now func() time.Time) *ProgressTracker {
	t := now()
	return &ProgressTracker{values: make([]float64, max(sweeps, 0)), now: now, start: t, lastAt: t}
}

// Record stores the progress of one sweep, clamped to [0, 1]. Indices
// outside the tracked range are ignored.
func (p *ProgressTracker) Record(index int, value float64) {
	if index < 0 || index >= len(p.values) {
		return
	}
	p.values[index] = min(max(value, 0), 1)

	mean, t := p.Average(), p.now()
	if t.Sub(p.start) < 100*time.Millisecond || mean <= 0.001 {
		p.lastAt, p.lastMean = t, mean
		return
	}
	dt := t.Sub(p.lastAt).Seconds()
	if dt <= 0.05 {
		return
	}
	if gained := mean - p.lastMean; gained > 0 {
		if p.rate == 0 {
			p.rate = mean / t.Sub(p.start).Seconds()
		} else {
			p.rate = 0.7*p.rate + 0.3*gained/dt
		}
	}
	p.lastAt, p.lastMean = t, mean
}

func (p *ProgressTracker) Average() float64 {
	if len(p.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.values {
		sum += v
	}
	return sum / float64(len(p.values))
}

// ETA is zero until a rate is known, and once every sweep is done.
func (p *ProgressTracker) ETA() time.Duration {
	mean := p.Average()
	if p.rate <= 0 || mean >= 1 {
		return 0
	}
	return min(time.Duration((1-mean)/p.rate*float64(time.Second)), maxETA)
}

// FormatETA renders "< 1s", "42s", "2m30s" or "1h15m"; zero reads
// "calculating...".
func FormatETA(eta time.Duration) string {
	if eta <= 0 {
		return "calculating..."
	}
	if eta < time.Second {
		return "< 1s"
	}
	h, m, s := int(eta.Hours()), int(eta.Minutes())%60, int(eta.Seconds())%60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

func progressBar(progress float64, width int) string {
	filled := int(min(max(progress, 0), 1) * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatProgressBarWithETA renders " 45.00% [████░░░░] ETA: 2m30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%6.2f%% [%s] ETA: %s", progress*100, progressBar(progress, width), FormatETA(eta))
}

// DisplayProgress animates a spinner with the averaged progress of sweeps
// sweeps until updates is closed, then prints a final 100% line. Run it in
// its own goroutine; it calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, updates <-chan synth.ProgressUpdate, sweeps int, out io.Writer) {
	defer wg.Done()
	if sweeps <= 0 {
		for range updates {
		}
		return
	}

	label := "Progress"
	if sweeps > 1 {
		label = "Avg progress"
	}
	tracker := NewProgressTracker(sweeps)
	spin := newSpinner(spinner.WithWriter(out))
	spin.Start()

	tick := time.NewTicker(ProgressRefreshRate)
	defer tick.Stop()

	for {
		select {
		case u, ok := <-updates:
			if !ok {
				spin.Stop()
				fmt.Fprintf(out, "%s: %s\n", label, FormatProgressBarWithETA(1, time.Millisecond, ProgressBarWidth))
				return
			}
			tracker.Record(u.Index, u.Value)
		case <-tick.C:
			spin.UpdateSuffix(fmt.Sprintf(" %s: %s", label,
				FormatProgressBarWithETA(tracker.Average(), tracker.ETA(), ProgressBarWidth)))
		}
	}
}
