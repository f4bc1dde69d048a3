// Package metrics provides Prometheus metrics for the WorkDeck server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workdeck_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "workdeck_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Workspace operation metrics
	fsOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workdeck_fs_operations_total",
			Help: "Total workspace filesystem operations",
		},
		[]string{"op", "status"},
	)

	treeWalkDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "workdeck_tree_walk_duration_seconds",
			Help:    "Time to materialize a directory tree listing",
			Buckets: prometheus.DefBuckets,
		},
	)

	treeNodesListed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "workdeck_tree_nodes_listed",
			Help: "Number of nodes in the most recent tree listing",
		},
	)

	// Content transfer metrics
	contentBytesRead = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workdeck_content_bytes_read_total",
			Help: "Total bytes served from file reads",
		},
	)

	contentBytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "workdeck_content_bytes_written_total",
			Help: "Total bytes accepted by file writes",
		},
	)

	// SSE metrics
	sseConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "workdeck_sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	sseEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workdeck_sse_events_total",
			Help: "Total SSE events published",
		},
		[]string{"type"},
	)
)

// RecordFSOperation records one workspace operation outcome.
func RecordFSOperation(op, status string) {
	fsOperationsTotal.WithLabelValues(op, status).Inc()
}

// ObserveTreeWalk records the duration and node count of a tree listing.
func ObserveTreeWalk(d time.Duration, nodes int) {
	treeWalkDuration.Observe(d.Seconds())
	treeNodesListed.Set(float64(nodes))
}

// AddContentBytesRead adds to the read byte counter.
func AddContentBytesRead(n int64) {
	contentBytesRead.Add(float64(n))
}

// AddContentBytesWritten adds to the written byte counter.
func AddContentBytesWritten(n int64) {
	contentBytesWritten.Add(float64(n))
}

// SetSSEConnectionsActive sets the active SSE connection gauge.
func SetSSEConnectionsActive(n int64) {
	sseConnectionsActive.Set(float64(n))
}

// RecordSSEEvent records one published SSE event.
func RecordSSEEvent(eventType string) {
	sseEventsTotal.WithLabelValues(eventType).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, r.URL.Path, rw.statusCode, time.Since(start))
	})
}
