package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := Config{}
	cfg.ApplyDefaults()
	return New(cfg, logger.NewDefault("test"))
}

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.ReadTimeout != 15 || cfg.WriteTimeout != 15 || cfg.IdleTimeout != 60 {
		t.Errorf("timeouts = %d/%d/%d, want 15/15/60", cfg.ReadTimeout, cfg.WriteTimeout, cfg.IdleTimeout)
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		t.Error("expected default CORS origins")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Port = 70000 }, true},
		{"negative read timeout", func(c *Config) { c.ReadTimeout = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{}
			cfg.ApplyDefaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.ApplyDefaults("demo", nil)

	for _, path := range []string{"/health", "/info", "/version"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, w.Code)
		}
	}
}

func TestHandleMountsOnMux(t *testing.T) {
	s := newTestServer(t)
	s.Handle("/custom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/custom", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", w.Code)
	}
}

func TestRespondWithError(t *testing.T) {
	s := newTestServer(t)
	s.GinEngine().GET("/missing", func(c *gin.Context) {
		RespondWithError(c, apperrors.NotFound("User", 42))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error.Message != "User with id 42 not found" {
		t.Errorf("message = %q", body.Error.Message)
	}
}
