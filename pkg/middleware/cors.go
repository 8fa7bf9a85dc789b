package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowMethods = "GET, POST, PUT, OPTIONS"
	allowHeaders = "Content-Type, Authorization"
)

// CORS allows credentialed requests from the listed origins only and answers
// preflight requests that no route handles itself.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed[o] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Add("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions && !hasOwnPreflight(c) {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// hasOwnPreflight reports whether an OPTIONS route was registered for the
// requested path.
func hasOwnPreflight(c *gin.Context) bool {
	return c.FullPath() != ""
}
