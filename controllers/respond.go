package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Cyberod/Taskify-Backend/services"
)

func parseQueryID(raw string) (uint, error) {
	v, err := strconv.ParseUint(raw, 10, 32)
	return uint(v), err
}

// respondError maps domain error kinds onto HTTP statuses. Anything that is
// not a services.Error is an internal failure: logged, generic body.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var domainErr *services.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Kind), gin.H{"error": domainErr.Message})
		return
	}

	logger.Error("internal error", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindPermissionDenied:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	case services.KindExpired:
		return http.StatusGone
	case services.KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
