package httpx

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/diewo77/medicine-recommendation/internal/apperr"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

func JSONError(c *gin.Context, status int, msg string, details any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Status: "error", Message: msg, Details: details})
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidInput, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindUnauthorized, apperr.KindNotFound:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error. Server-side failures are logged and
// answered with a generic message.
func Error(c *gin.Context, err error) {
	var appErr *apperr.AppError
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}
	status := StatusFor(appErr.Kind)

	entry := log.WithFields(log.Fields{
		"kind": appErr.Kind,
		"code": appErr.Code,
		"path": c.Request.URL.Path,
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error(appErr.Message)
		JSONError(c, status, "Internal server error", nil)
		return
	}
	entry.Warn(appErr.Message)

	var details any
	if len(appErr.Fields) > 0 {
		details = appErr.Fields
	}
	JSONError(c, status, appErr.Message, details)
}
