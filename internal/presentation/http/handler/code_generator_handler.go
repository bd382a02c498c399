package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
	"github.com/rosedale/studio-api/pkg/promocode"
)

// CodeGeneratorHandler serves the internal promo and gift-card code API
type CodeGeneratorHandler struct{}

// NewCodeGeneratorHandler creates a new code generator handler
func NewCodeGeneratorHandler() *CodeGeneratorHandler {
	return &CodeGeneratorHandler{}
}

// Generate returns a handler bound to one code kind. Parameters arrive as
// query strings and are validated by the generator itself.
func (h *CodeGeneratorHandler) Generate(kind promocode.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		params := promocode.Params{
			Duration:   c.Query("duration"),
			Discount:   c.Query("discount"),
			FirstName:  c.Query("first_name"),
			LastName:   c.Query("last_name"),
			Amount:     c.Query("amount"),
			Type:       c.Query("type"),
			Quantity:   c.Query("quantity"),
			Expiration: c.Query("expiration"),
		}

		result, err := promocode.Generate(kind, params)
		if err != nil {
			var vErr *promocode.ValidationError
			if errors.As(err, &vErr) {
				response.Error(c, apperror.NewValidationError(vErr.Reason))
				return
			}
			response.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
