package api

import (
	"net/http"
	"sync/atomic"
)

// Metrics tracks per-class request counters for the monitor TUI. Rejections
// (4xx) and upstream failures (5xx) are counted separately so shape-drift
// incidents upstream are distinguishable from bad client input.
type Metrics struct {
	requestsTotal  uint64
	rejectedTotal  uint64
	upstreamErrors uint64
	inFlight       int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

type MetricsSnapshot struct {
	RequestsTotal  uint64
	RejectedTotal  uint64
	UpstreamErrors uint64
	InFlight       int64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:  atomic.LoadUint64(&m.requestsTotal),
		RejectedTotal:  atomic.LoadUint64(&m.rejectedTotal),
		UpstreamErrors: atomic.LoadUint64(&m.upstreamErrors),
		InFlight:       atomic.LoadInt64(&m.inFlight),
	}
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&m.inFlight, 1)
		defer atomic.AddInt64(&m.inFlight, -1)

		atomic.AddUint64(&m.requestsTotal, 1)

		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		switch {
		case wrapped.status >= 500:
			atomic.AddUint64(&m.upstreamErrors, 1)
		case wrapped.status >= 400:
			atomic.AddUint64(&m.rejectedTotal, 1)
		}
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.status = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
