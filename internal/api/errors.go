package api

import (
	"github.com/gin-gonic/gin"

	"grid-planner/internal/metrics"
	"grid-planner/internal/middleware"
)

// Error code constants for standardized API responses.
const (
	ErrCodeInvalidRequest  = "invalid_request"
	ErrCodeInvalidArgument = "invalid_argument"
	ErrCodeNotFound        = "not_found"
	ErrCodeValidationError = "validation_error"
	ErrCodeInternalError   = "internal_error"
)

// respondError writes a standardized JSON error response and aborts the request.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()

	resp := map[string]string{
		"code":    code,
		"message": message,
	}
	if rid := c.GetString(middleware.RequestIDKey); rid != "" {
		resp["request_id"] = rid
	}

	c.AbortWithStatusJSON(status, resp)
}
