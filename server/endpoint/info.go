package endpoint

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/version"
)

var startTime = time.Now()

// InfoResponse is the body returned by the info endpoint.
type InfoResponse struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Hostname  string `json:"hostname"`
	PID       int    `json:"pid"`
	Uptime    string `json:"uptime"`
}

// Info returns a handler that reports process-level service information.
func Info(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostname, _ := os.Hostname()
		c.JSON(http.StatusOK, InfoResponse{
			Service:   serviceName,
			Version:   version.Version,
			GoVersion: runtime.Version(),
			Hostname:  hostname,
			PID:       os.Getpid(),
			Uptime:    time.Since(startTime).Round(time.Second).String(),
		})
	}
}
