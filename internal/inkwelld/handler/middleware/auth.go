package middleware

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerAuth enforces bearer token authentication. Loopback requests and
// the health endpoint are exempt, so local tooling keeps working when a
// token is set for remote callers. Comparison is constant time.
func BearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" || isLocalRequest(c.Request) {
			c.Next()
			return
		}

		const prefix = "Bearer "
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, prefix) {
			unauthorized(c, "missing or malformed Authorization header")
			return
		}

		supplied := strings.TrimPrefix(header, prefix)
		if subtle.ConstantTimeCompare([]byte(supplied), []byte(token)) != 1 {
			unauthorized(c, "invalid token")
			return
		}
		c.Next()
	}
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"category": "authentication",
			"message":  msg,
		},
	})
}

func isLocalRequest(r *http.Request) bool {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return false
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
