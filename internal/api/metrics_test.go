package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMetricsMiddlewareCountsByClass(t *testing.T) {
	m := NewMetrics()
	status := http.StatusOK
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))

	do := func(code int) {
		status = code
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))
	}

	do(http.StatusOK)
	do(http.StatusBadRequest)
	do(http.StatusInternalServerError)
	do(http.StatusServiceUnavailable)

	snap := m.Snapshot()
	if snap.RequestsTotal != 4 {
		t.Errorf("RequestsTotal = %d, want 4", snap.RequestsTotal)
	}
	if snap.RejectedTotal != 1 {
		t.Errorf("RejectedTotal = %d, want 1", snap.RejectedTotal)
	}
	if snap.UpstreamErrors != 2 {
		t.Errorf("UpstreamErrors = %d, want 2", snap.UpstreamErrors)
	}
	if snap.InFlight != 0 {
		t.Errorf("InFlight = %d, want 0 after completion", snap.InFlight)
	}
}

func TestMetricsMiddlewareDefaultsToOK(t *testing.T) {
	m := NewMetrics()
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", nil))

	snap := m.Snapshot()
	if snap.RequestsTotal != 1 || snap.RejectedTotal != 0 || snap.UpstreamErrors != 0 {
		t.Errorf("snapshot = %+v, want one clean request", snap)
	}
}
