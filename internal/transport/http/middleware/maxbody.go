package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "warbler/internal/transport/http/response"
)

// MaxBodyBytes bounds request bodies to n bytes.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			abort(c, resp.CodeTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
