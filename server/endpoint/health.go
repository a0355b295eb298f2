// Package endpoint provides the standard operational endpoints shared by
// every funcbox app: health, info, and version.
package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/component"
)

// HealthChecker reports the health of a service's components.
type HealthChecker interface {
	CheckHealth(c *gin.Context) []component.Health
}

// HealthResponse is the body returned by the health endpoint.
type HealthResponse struct {
	Status     string             `json:"status"`
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components,omitempty"`
}

// Health returns a handler that reports overall service health. The overall
// status is degraded if any component is degraded and unhealthy if any
// component is unhealthy; an unhealthy service answers 503.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:    string(component.StatusHealthy),
			Service:   serviceName,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		if checker != nil {
			resp.Components = checker.CheckHealth(c)
			resp.Status = string(overallStatus(resp.Components))
		}

		status := http.StatusOK
		if resp.Status == string(component.StatusUnhealthy) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}

func overallStatus(components []component.Health) component.HealthStatus {
	overall := component.StatusHealthy
	for _, h := range components {
		switch h.Status {
		case component.StatusUnhealthy:
			return component.StatusUnhealthy
		case component.StatusDegraded:
			overall = component.StatusDegraded
		}
	}
	return overall
}
