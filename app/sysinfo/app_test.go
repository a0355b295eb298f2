package sysinfo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine() *gin.Engine {
	r := gin.New()
	New(logger.NewDefault("test")).Register(r)
	return r
}

func do(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestWelcome(t *testing.T) {
	r := newTestEngine()

	for _, path := range []string{"/", "/api"} {
		w := do(r, path)
		if w.Code != http.StatusOK {
			t.Fatalf("GET %s = %d, want 200", path, w.Code)
		}
		body := decode(t, w)
		if body["go_version"] != runtime.Version() {
			t.Errorf("go_version = %v, want %s", body["go_version"], runtime.Version())
		}
		encoders, ok := body["encoders"].([]interface{})
		if !ok || len(encoders) == 0 {
			t.Errorf("expected an encoder roster, got %v", body["encoders"])
		}
	}
}

func TestEncoderProbe(t *testing.T) {
	r := newTestEngine()

	w := do(r, "/api/test/encoders")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/test/encoders = %d, want 200", w.Code)
	}
	if got := w.Header().Get("X-Json-Encoder"); got != "goccy/go-json" {
		t.Errorf("X-Json-Encoder = %q, want goccy/go-json", got)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	body := decode(t, w)
	if body["status"] != "success" {
		t.Errorf("status = %v, want success", body["status"])
	}
	results, ok := body["test_results"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing test_results: %v", body)
	}
	config, ok := results["config"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing config: %v", results)
	}
	server, ok := config["server"].(map[string]interface{})
	if !ok || server["port"] != float64(8080) {
		t.Errorf("nested server block wrong: %v", config["server"])
	}
	if results["config_size"] != float64(len(config)) {
		t.Errorf("config_size = %v, want %d", results["config_size"], len(config))
	}
}
