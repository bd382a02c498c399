package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
)

// ClientIP resolves the caller's address behind the reverse proxy. The
// first X-Forwarded-For hop wins, then X-Real-IP, then the socket peer.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	if realIP := strings.TrimSpace(c.GetHeader("X-Real-IP")); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// IPAllowlistMiddleware rejects requests from addresses outside the given
// list. An empty list fails closed: a platform webhook with no configured
// allowlist accepts nothing.
func IPAllowlistMiddleware(allowed []string) gin.HandlerFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, ip := range allowed {
		if trimmed := strings.TrimSpace(ip); trimmed != "" {
			allowedSet[trimmed] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		ip := ClientIP(c)
		if _, ok := allowedSet[ip]; !ok {
			response.Error(c, apperror.ErrForbiddenIP)
			c.Abort()
			return
		}
		c.Next()
	}
}
