package middleware

import "github.com/gin-gonic/gin"

// NoStore keeps responses out of browser and proxy caches; they carry per-session data.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
