package api

import (
	"coursell/backend/internal/logger"
	"coursell/backend/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// statusFor maps service sentinel errors to HTTP status codes. Zero means
// the error is unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrAdminAlreadyExists),
		errors.Is(err, service.ErrAlreadyPurchased):
		return http.StatusConflict
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPurchaseRequired):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrCourseNotOwned),
		errors.Is(err, service.ErrVideoNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrAdminNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCourse),
		errors.Is(err, service.ErrInvalidObjectKey):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	return 0
}

// respondError writes the error response for err. Unexpected errors are
// logged with the request id and answered with a bare 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	if code := statusFor(err); code != 0 {
		abortWithError(c, code, err.Error())
		return
	}
	logger.WithRequest(log, requestIDFrom(c)).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
		zap.Error(err),
	)
	abortWithError(c, http.StatusInternalServerError, internalErrorMessage)
}
