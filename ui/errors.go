package ui

import (
	"net/http"

	"churnboard/internal/errors"

	"github.com/gin-gonic/gin"
)

func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeFileAccess, errors.CodeDatabaseError:
		return http.StatusServiceUnavailable
	case errors.CodeParseError, errors.CodeSchemaMismatch:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.CodeInternalError
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		logger.Errorf("%s %s failed (request %s): %v", c.Request.Method, c.Request.URL.Path, c.GetString(requestIDKey), err)
	}
	c.JSON(status, gin.H{
		"error":      err.Error(),
		"code":       code,
		"request_id": c.GetString(requestIDKey),
	})
}
