package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports per-dependency health details, e.g. the number of
// running pipeline tasks or the configured transcription backend.
type HealthChecker func(ctx context.Context) map[string]any

// Health returns a handler that reports service health.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{
			"status":    "healthy",
			"service":   serviceName,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		if checker != nil {
			body["details"] = checker(c.Request.Context())
		}
		c.JSON(http.StatusOK, body)
	}
}
