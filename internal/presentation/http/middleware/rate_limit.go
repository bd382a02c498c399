package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
	"github.com/rosedale/studio-api/pkg/ratelimit"
)

// RateLimitMiddleware throttles callers by client IP using the injected
// limiter. Swapping the limiter implementation changes the throttling
// strategy without touching the HTTP layer.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := limiter.Allow(c.Request.Context(), ClientIP(c))
		if !ok {
			if retryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			}
			response.Error(c, apperror.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
