package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agbru/adfcalc/internal/config"
	"github.com/agbru/adfcalc/internal/logging"
	"github.com/agbru/adfcalc/internal/synth"
	"github.com/agbru/adfcalc/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// liveServer serves the full middleware chain over a real listener.
func liveServer(t testing.TB, perMinute int, opts ...Option) *httptest.Server {
	t.Helper()
	rl := NewRateLimiter(RateLimiterConfig{RequestsPerMinute: perMinute})
	t.Cleanup(rl.Stop)

	opts = append([]Option{WithRateLimiter(rl), WithLogger(logging.NewLogger(io.Discard, "test"))}, opts...)
	ts := httptest.NewServer(NewServer(synth.ADF4351(), config.AppConfig{Port: "0", Workers: 2}, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(client *http.Client, url string, v any) (int, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if v == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, err
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(v)
}

// Every concurrent solve must match a direct call for its reference.
func TestConcurrentSolvesMatchDirectCalls(t *testing.T) {
	if testing.Short() {
		t.Skip("load test")
	}
	ts := liveServer(t, 10_000)
	client := &http.Client{Timeout: 30 * time.Second}
	limits := synth.ADF4351()

	var g errgroup.Group
	g.SetLimit(10)
	for i := range 100 {
		ref := float64(10_000_000 + i*1_000_000)
		g.Go(func() error {
			var got models.SolveReport
			code, err := getJSON(client, fmt.Sprintf("%s/solve?ref=%.0f&rf=2400000000", ts.URL, ref), &got)
			if err != nil {
				return err
			}
			want, err := synth.Solve(ref, 2.4e9, limits)
			if err != nil {
				return err
			}
			r := got.Registers
			if code != http.StatusOK || r == nil || r.R != want.R || r.Int != want.Int || r.Frac != want.Frac {
				return fmt.Errorf("ref %.0f: status %d, got %+v, want R=%d INT=%d FRAC=%d",
					ref, code, r, want.R, want.Int, want.Frac)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestRateLimitEndToEnd(t *testing.T) {
	t.Parallel()
	ts := liveServer(t, 5)
	client := &http.Client{Timeout: 5 * time.Second}

	limited := 0
	for range 10 {
		resp, err := client.Get(ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			assert.Equal(t, "60", resp.Header.Get("Retry-After"))
			limited++
		}
	}
	assert.Equal(t, 5, limited)
}

func TestHardeningHeadersEndToEnd(t *testing.T) {
	t.Parallel()
	ts := liveServer(t, 100)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	for _, kv := range hardeningHeaders {
		assert.Equal(t, kv[1], resp.Header.Get(kv[0]), kv[0])
	}
}

func TestMaxSweepStepsEndToEnd(t *testing.T) {
	t.Parallel()
	sec := DefaultSecurityConfig()
	sec.MaxSweepSteps = 1000
	ts := liveServer(t, 100, WithSecurityConfig(sec))

	var errResp ErrorResponse
	code, err := getJSON(http.DefaultClient, ts.URL+"/sweep?refstart=25000000&steps=5000&rf=2400000000", &errResp)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "steps", errResp.Field)
	assert.Contains(t, errResp.Message, "1000")
}

func TestMetricsEndpointAfterSolve(t *testing.T) {
	t.Parallel()
	ts := liveServer(t, 100)

	_, err := getJSON(http.DefaultClient, ts.URL+"/solve?ref=25000000&rf=2400000000", nil)
	require.NoError(t, err)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	for _, name := range []string{"adfcalc_requests_total", "adfcalc_active_requests", "adfcalc_request_duration_seconds"} {
		assert.Contains(t, string(body), name)
	}
}

func BenchmarkSolveEndpoint(b *testing.B) {
	ts := liveServer(b, 1_000_000)
	client := &http.Client{}
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := getJSON(client, ts.URL+"/solve?ref=25000000&rf=2400000013", nil); err != nil {
				b.Error(err)
			}
		}
	})
}
