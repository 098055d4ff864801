package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Request collectors live in the default registry next to the solver
// collectors of the synth package, so one /metrics scrape returns both.
var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "adfcalc_active_requests",
		Help: "Requests currently being served.",
	})
	totalRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "adfcalc_requests_total",
		Help: "Requests served, by path and status code.",
	}, []string{"path", "code"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "adfcalc_request_duration_seconds",
		Help: "Time to answer a request, by path. Sweeps dominate the upper buckets.",
		// 1ms .. ~33s
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 9),
	}, []string{"path"})
)

// Metrics records request metrics and serves the Prometheus endpoint.
type Metrics struct {
	handler http.Handler
}

func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

func (m *Metrics) IncrementActiveRequests() { activeRequests.Inc() }
func (m *Metrics) DecrementActiveRequests() { activeRequests.Dec() }

// ObserveRequest counts a finished request and records its latency. Paths
// outside the API are folded into "other" to bound label cardinality.
func (m *Metrics) ObserveRequest(path string, code int, elapsed time.Duration) {
	path = routeLabel(path)
	totalRequests.WithLabelValues(path, strconv.Itoa(code)).Inc()
	requestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}

// WritePrometheus writes all registered metrics in the text exposition
// format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

func routeLabel(path string) string {
	switch path {
	case "/solve", "/sweep", "/limits", "/health", "/metrics":
		return path
	}
	return "other"
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(r.URL.Path, rec.status, time.Since(start))
	}
}
