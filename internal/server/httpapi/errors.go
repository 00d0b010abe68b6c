package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/booklib/internal/common"
	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"message": ...}. Errors outside the known
// categories are logged and reported as a bare 500.
func (h *handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)

	msg, ok := common.Message(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		msg, ok = "Internal server error", true
	}
	if !ok {
		msg = http.StatusText(status)
	}

	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
