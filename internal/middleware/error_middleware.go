package middleware

import (
	"errors"
	"net/http"

	"sentinal-delivery/internal/transport/httpdto"
	sentinal_errors "sentinal-delivery/pkg/errors"
	"sentinal-delivery/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached with c.Error.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, code := StatusForError(err)
		msg := err.Error()
		if status >= http.StatusInternalServerError {
			if l != nil {
				l.WithContext(c.Request.Context()).Errorf("request error: %s", msg)
			}
			msg = http.StatusText(status)
		}
		c.JSON(status, httpdto.NewErrorResponse(msg, code))
	}
}

// StatusForError maps sentinel errors to an HTTP status and error code.
func StatusForError(err error) (int, string) {
	switch {
	case errors.Is(err, sentinal_errors.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, sentinal_errors.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, sentinal_errors.ErrUnsupportedReceipt):
		return http.StatusUnprocessableEntity, "UNSUPPORTED_RECEIPT"
	case errors.Is(err, sentinal_errors.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION"
	case errors.Is(err, sentinal_errors.ErrNotAllowed):
		return http.StatusForbidden, "NOT_ALLOWED"
	case errors.Is(err, sentinal_errors.ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, sentinal_errors.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, sentinal_errors.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR"
}
