package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
)

// APIKeyHeader authenticates internal API callers
const APIKeyHeader = "X-API-KEY"

// APIKeyMiddleware guards internal endpoints with a shared secret header
func APIKeyMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(APIKeyHeader)
		if apiKey == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			response.Error(c, apperror.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
