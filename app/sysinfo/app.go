// Package sysinfo is the runtime-probe demo app: it reports runtime and
// platform details and exercises the non-standard JSON encoder.
package sysinfo

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"

	"github.com/skillsenselab/funcbox/errors"
	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/server"
	"github.com/skillsenselab/funcbox/version"
)

const encoderName = "goccy/go-json"

// App serves the sysinfo demo.
type App struct {
	log *logger.Logger
}

// New creates the app.
func New(log *logger.Logger) *App {
	return &App{log: log.WithComponent("sysinfo")}
}

func (a *App) Name() string        { return "sysinfo" }
func (a *App) Description() string { return "Runtime information and JSON encoder probe" }

// Register mounts the app's routes.
func (a *App) Register(r gin.IRouter) {
	r.GET("/", a.welcome)
	r.GET("/api", a.welcome)
	r.GET("/api/test/encoders", a.testEncoders)
}

func (a *App) welcome(c *gin.Context) {
	server.RespondOK(c, gin.H{
		"message":    "Runtime probe",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"go_version": runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		"version":    version.Version,
		"encoders":   []string{encoderName, "encoding/json"},
		"endpoints": gin.H{
			"/":                  "This endpoint",
			"/api/test/encoders": "JSON encoder probe",
		},
	})
}

// testEncoders builds a nested configuration document and serializes it with
// the goccy encoder, bypassing gin's default renderer.
func (a *App) testEncoders(c *gin.Context) {
	config := map[string]interface{}{
		"app_name":        "funcbox",
		"max_connections": 100,
		"timeout":         30.5,
		"features":        []string{"sse", "oauth", "http2"},
		"enabled":         true,
		"server": map[string]interface{}{
			"host": "localhost",
			"port": 8080,
		},
	}

	payload := map[string]interface{}{
		"status":  "success",
		"encoder": encoderName,
		"test_results": map[string]interface{}{
			"config_size": len(config),
			"config":      config,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		a.log.WithError(err).Error("Encoder probe failed")
		server.RespondWithError(c, errors.Internal(err))
		return
	}

	c.Header("X-Json-Encoder", encoderName)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
