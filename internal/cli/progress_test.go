package cli

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/agbru/adfcalc/internal/synth"
	"github.com/briandowns/spinner"
	"github.com/stretchr/testify/assert"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

type recordingSpinner struct {
	mu               sync.Mutex
	started, stopped bool
	suffix           string
}

func (s *recordingSpinner) Start() { s.mu.Lock(); s.started = true; s.mu.Unlock() }
func (s *recordingSpinner) Stop()  { s.mu.Lock(); s.stopped = true; s.mu.Unlock() }

func (s *recordingSpinner) UpdateSuffix(v string) {
	s.mu.Lock()
	s.suffix = v
	s.mu.Unlock()
}

func withRecordingSpinner(t *testing.T) *recordingSpinner {
	t.Helper()
	orig := newSpinner
	t.Cleanup(func() { newSpinner = orig })
	rs := &recordingSpinner{}
	newSpinner = func(...spinner.Option) Spinner { return rs }
	return rs
}

func TestProgressTrackerAverageClampsAndIgnoresBadIndex(t *testing.T) {
	t.Parallel()
	p := NewProgressTracker(2)
	p.Record(0, 1.5)
	p.Record(1, -1)
	p.Record(2, 0.9)
	p.Record(-1, 0.9)
	assert.Equal(t, 0.5, p.Average())

	assert.Zero(t, NewProgressTracker(-1).Average())
}

func TestProgressTrackerETA(t *testing.T) {
	t.Parallel()
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newProgressTracker(1, clock.now)

	p.Record(0, 0.25)
	assert.Zero(t, p.ETA(), "no estimate in the first 100ms")

	clock.advance(time.Second)
	p.Record(0, 0.5)
	// First rate is the overall mean rate: 0.5 per second.
	assert.Equal(t, time.Second, p.ETA())

	clock.advance(time.Second)
	p.Record(0, 0.6)
	// 0.7*0.5 + 0.3*0.1 = 0.38 per second for the remaining 0.4.
	assert.InDelta(t, float64(0.4/0.38*float64(time.Second)), float64(p.ETA()), float64(time.Millisecond))

	p.Record(0, 1)
	assert.Zero(t, p.ETA(), "a finished sweep has nothing left")
}

func TestProgressTrackerETACapped(t *testing.T) {
	t.Parallel()
	p := newProgressTracker(1, time.Now)
	p.values[0] = 0.01
	p.rate = 1e-9
	assert.Equal(t, maxETA, p.ETA())
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{45 * time.Second, "45s"},
		{time.Minute, "1m"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{time.Hour + 15*time.Minute, "1h15m"},
		{2 * time.Hour, "2h"},
	} {
		assert.Equal(t, tc.want, FormatETA(tc.eta), "eta %v", tc.eta)
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	assert.Equal(t, " 50.00% [█████░░░░░] ETA: 30s", FormatProgressBarWithETA(0.5, 30*time.Second, 10))
	assert.Equal(t, "100.00% [████] ETA: < 1s", FormatProgressBarWithETA(1, time.Millisecond, 4))
	assert.Equal(t, "░░░", progressBar(-0.2, 3))
	assert.Equal(t, "███", progressBar(1.2, 3))
}

func TestDisplayProgress(t *testing.T) {
	rs := withRecordingSpinner(t)

	updates := make(chan synth.ProgressUpdate)
	go func() {
		for i := range 4 {
			updates <- synth.ProgressUpdate{Value: float64(i) * 0.25}
			time.Sleep(ProgressRefreshRate / 2)
		}
		close(updates)
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	var out bytes.Buffer
	DisplayProgress(&wg, updates, 1, &out)
	wg.Wait()

	assert.True(t, rs.started)
	assert.True(t, rs.stopped)
	assert.Contains(t, out.String(), "Progress: 100.00%")
	assert.Contains(t, rs.suffix, "Progress:")
}

func TestDisplayProgressAveragesSweeps(t *testing.T) {
	withRecordingSpinner(t)

	updates := make(chan synth.ProgressUpdate, 2)
	updates <- synth.ProgressUpdate{Index: 0, Value: 1}
	updates <- synth.ProgressUpdate{Index: 1, Value: 1}
	close(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	var out bytes.Buffer
	DisplayProgress(&wg, updates, 2, &out)
	wg.Wait()

	assert.Regexp(t, `^Avg progress: 100\.00%`, out.String())
}

func TestDisplayProgressDrainsWithoutSweeps(t *testing.T) {
	t.Parallel()
	updates := make(chan synth.ProgressUpdate, 1)
	updates <- synth.ProgressUpdate{Value: 0.5}
	close(updates)

	var wg sync.WaitGroup
	wg.Add(1)
	var out bytes.Buffer
	DisplayProgress(&wg, updates, 0, &out)
	wg.Wait()
	assert.Zero(t, out.Len())
}

func TestRealSpinner(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	rs := realSpinner{spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(&buf))}
	rs.Start()
	rs.UpdateSuffix(" sweeping")
	rs.Stop()
}
