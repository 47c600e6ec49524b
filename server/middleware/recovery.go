package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/audioscribe/audioscribe/logger"
)

// Recovery converts a handler panic into a logged 500 response. Pipeline
// goroutines have their own containment; this only covers the HTTP layer.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				fields := map[string]interface{}{
					"panic":  fmt.Sprintf("%v", r),
					"stack":  string(debug.Stack()),
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
				}
				if id := RequestIDFrom(c); id != "" {
					fields[logger.FieldRequestID] = id
				}
				logger.Error("Panic recovered", fields)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}
