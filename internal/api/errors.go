package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tabscout/internal/errors"
)

// statusFor maps an error's code to an HTTP status
func statusFor(err error) int {
	switch {
	case apperrors.IsIngestionError(err):
		return http.StatusUnprocessableEntity
	case apperrors.GetCode(err) == apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.GetCode(err) == apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with {"error", "code"}. Server-side failures are
// logged and their details withheld.
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	code := apperrors.GetCode(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
		if code == "UNKNOWN" {
			code = apperrors.CodeInternalError
		}
	}
	c.JSON(status, gin.H{"error": message, "code": code})
}
