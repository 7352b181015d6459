package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS allows every origin in development. In production only origin (the
// frontend URL) is echoed back.
func CORS(origin string, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		allow := "*"
		if production {
			allow = origin
			c.Header("Vary", "Origin")
		}
		c.Header("Access-Control-Allow-Origin", allow)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
