package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/kitchenscan/models"
)

// Extractor runs one planner extraction.
type Extractor interface {
	Extract(ctx context.Context, req models.ExtractRequest) *models.ExtractionResult
}

// ExtractItems returns a handler for POST /extract-items.
//
// The request context is handed to the extractor, so a client disconnect
// aborts the browser phases; the session is still closed.
func ExtractItems(ex Extractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			res := models.NewFailure(models.ErrCodeInvalidInput, err.Error())
			res.PlannerURL = req.PlannerURL
			res.RequestNonce = req.RequestNonce
			res.Error.Stage = "validating"
			c.JSON(http.StatusBadRequest, res)
			return
		}

		res := ex.Extract(c.Request.Context(), req)
		c.JSON(statusFor(res), res)
	}
}

// statusFor maps an extraction envelope to its HTTP status code.
func statusFor(res *models.ExtractionResult) int {
	switch {
	case res.Success:
		return http.StatusOK
	case res.Error != nil && models.IsInputError(res.Error.Code):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
