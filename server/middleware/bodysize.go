package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/audioscribe/audioscribe/util"
)

const defaultMaxBodySize = 2 << 30 // 2GB, sized for long-form audio uploads

// GinBodySizeLimit returns a Gin middleware that restricts the request body
// to the given size string (e.g. "2GB", "512KB").
func GinBodySizeLimit(maxSize string) gin.HandlerFunc {
	size := util.ParseSize(maxSize, defaultMaxBodySize)
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, size)
		c.Next()
	}
}
