package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/logger"
	"github.com/skillsenselab/funcbox/util"
)

// APIKeyAudit returns a Gin middleware that records whether a request
// carried an X-Api-Key header. The key itself is never logged in full,
// only a masked prefix for correlation.
func APIKeyAudit(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-Api-Key"); key != "" {
			masked := util.MaskSecret(key, 8)
			c.Set("api_key_prefix", masked)
			log.Debug("api key presented", map[string]interface{}{
				"path":       c.Request.URL.Path,
				"key_prefix": masked,
			})
		}
		c.Next()
	}
}
