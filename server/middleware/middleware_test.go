package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	r := newEngine(RequestID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(w, req)

	if id := w.Header().Get("X-Request-Id"); id == "" {
		t.Error("expected X-Request-Id header to be set")
	}
}

func TestRequestIDPreserved(t *testing.T) {
	r := newEngine(RequestID())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("X-Request-Id", "incoming-id")
	r.ServeHTTP(w, req)

	if id := w.Header().Get("X-Request-Id"); id != "incoming-id" {
		t.Errorf("expected incoming request id to be preserved, got %q", id)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", w.Code)
	}
}

func TestCORS(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"https://example.com"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}

	tests := []struct {
		name        string
		origin      string
		method      string
		wantAllowed string
		wantStatus  int
	}{
		{"allowed origin", "https://example.com", http.MethodGet, "https://example.com", http.StatusOK},
		{"disallowed origin", "https://evil.example", http.MethodGet, "", http.StatusOK},
		{"no origin", "", http.MethodGet, "", http.StatusOK},
		{"preflight", "https://example.com", http.MethodOptions, "https://example.com", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(CORS(cfg))

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/ok", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			r.ServeHTTP(w, req)

			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllowed {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantAllowed)
			}
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestCORSWildcard(t *testing.T) {
	r := newEngine(CORS(CORSConfig{AllowedOrigins: []string{"*"}}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set("Origin", "https://anything.example")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://anything.example" {
		t.Errorf("wildcard config should echo origin, got %q", got)
	}
}

func TestProcessTime(t *testing.T) {
	r := newEngine(ProcessTime())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(w, req)

	header := w.Header().Get("X-Process-Time")
	if header == "" {
		t.Fatal("expected X-Process-Time header to be set")
	}
	if secs, err := strconv.ParseFloat(header, 64); err != nil || secs < 0 {
		t.Errorf("X-Process-Time = %q, want non-negative float seconds", header)
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	log := logger.NewDefault("test")
	r := newEngine(RequestLogger(log))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestKeyPrefix(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"short", "short"},
		{"12345678", "12345678"},
		{"123456789abcdef", "12345678..."},
	}
	for _, tt := range tests {
		if got := keyPrefix(tt.key); got != tt.want {
			t.Errorf("keyPrefix(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
