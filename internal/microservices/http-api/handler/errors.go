package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"videohub/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto status codes. Anything unknown is
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrInactiveUser),
		errors.Is(err, service.ErrTwoStepRequired),
		errors.Is(err, service.ErrTwoStepDisabled),
		errors.Is(err, service.ErrInvalidOTP):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrExpiredToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNameInUse),
		errors.Is(err, service.ErrEmailInUse),
		errors.Is(err, service.ErrCategoryExists):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidComment),
		errors.Is(err, service.ErrUnsupportedMedia),
		errors.Is(err, service.ErrFollowSelf),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrInvalidVerification),
		errors.Is(err, service.ErrInvalidResetToken):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// paramID parses a positive int64 path parameter, answering 400 otherwise.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
