package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/brandlens/brandlens/extractor"
	"github.com/brandlens/brandlens/models"
)

// BrandExtractor is what the handler needs from the orchestrator.
type BrandExtractor interface {
	Extract(ctx context.Context, targetURL string, timeoutSeconds int) (*extractor.Result, error)
}

// Extract returns a handler for POST /api/v1/extract.
//
// Flow:
//  1. Parse & validate request, apply defaults.
//  2. Orchestrator renders the page and fans out the signal tasks.
//  3. Assemble the response with phase timings.
func Extract(ex BrandExtractor) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.ExtractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ExtractResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		result, err := ex.Extract(c.Request.Context(), req.URL, req.Timeout)
		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}

		c.JSON(http.StatusOK, models.ExtractResponse{
			Success: true,
			Logo:    result.Logo,
			LogoRaw: result.LogoRaw,
			Colors: models.BrandColors{
				Primary:   result.Colors.Primary,
				Secondary: result.Colors.Secondary,
				Palette:   result.Colors.Palette,
			},
			About:      result.About,
			Disclaimer: result.Disclaimer,
			Timing: models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				RenderMs:  result.RenderMs,
				ExtractMs: result.ExtractMs,
			},
		})
	}
}

// respondError maps an ExtractError to the correct HTTP status code and
// writes a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	var extractErr *models.ExtractError
	if !errors.As(err, &extractErr) {
		extractErr = models.NewExtractError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(extractErr), models.ExtractResponse{
		Success: false,
		Error:   extractErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ExtractError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
