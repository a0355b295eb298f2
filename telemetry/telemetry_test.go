package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestWrapHandlerPassesThrough(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	h := WrapHandler("test-app", inner)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusAccepted {
		t.Errorf("status = %d, want 202", w.Code)
	}
}

// deadlineRecorder records deadline changes the way a real server
// connection would accept them.
type deadlineRecorder struct {
	*httptest.ResponseRecorder
	deadlineCleared bool
}

func (d *deadlineRecorder) SetWriteDeadline(deadline time.Time) error {
	if deadline.IsZero() {
		d.deadlineCleared = true
	}
	return nil
}

func TestWrapHandlerKeepsDeadlineControl(t *testing.T) {
	// Long-lived SSE responses clear the server write deadline through
	// http.ResponseController; the wrapper chain must not hide it.
	rec := &deadlineRecorder{ResponseRecorder: httptest.NewRecorder()}

	var deadlineErr error
	h := WrapHandler("stream-app", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		deadlineErr = http.NewResponseController(w).SetWriteDeadline(time.Time{})
	}))
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))

	if deadlineErr != nil {
		t.Fatalf("SetWriteDeadline through wrapped writer: %v", deadlineErr)
	}
	if !rec.deadlineCleared {
		t.Error("write deadline was not cleared on the underlying writer")
	}
}

func TestMetricsHandlerExposesCounters(t *testing.T) {
	// Generate at least one observation so the counter appears in the scrape.
	h := WrapHandler("scrape-test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	w := httptest.NewRecorder()
	MetricsHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "funcbox_http_requests_total") {
		t.Error("expected funcbox_http_requests_total in metrics output")
	}
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Config{Enabled: false})
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown returned error: %v", err)
	}
}
