package middleware

import (
	"bytes"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
	"github.com/rosedale/studio-api/pkg/signature"
)

// SignatureHeader carries the payment platform's HMAC of the raw body
const SignatureHeader = "X-Square-Hmacsha256-Signature"

// SignatureMiddleware verifies the webhook HMAC before any parsing
// happens. The body is restored afterwards so handlers can bind it.
func SignatureMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.Error(c, apperror.NewValidationError("Unable to read request body"))
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if !signature.Verify(body, c.GetHeader(SignatureHeader), secret) {
			response.Error(c, apperror.ErrBadSignature)
			c.Abort()
			return
		}
		c.Next()
	}
}
