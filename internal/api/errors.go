// internal/api/errors.go
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collegeequity-workers/internal/common/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// StatusFor maps an error code onto the HTTP status the UI expects.
func StatusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidCredentials, errors.ErrCodeSessionNotFound:
		return http.StatusUnauthorized
	case errors.ErrCodeDuplicateUser:
		return http.StatusConflict
	case errors.ErrCodeValidationFailed,
		errors.ErrCodeInvalidProfile,
		errors.ErrCodeInvalidInstitutionData,
		errors.ErrCodeInstitutionNotFound,
		errors.ErrCodeAnalysisPreconditionViolation,
		errors.ErrCodeUserNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	stdErr := errors.Normalize(err)
	status := StatusFor(stdErr.Code)

	fields := map[string]interface{}{
		"path":   c.FullPath(),
		"code":   string(stdErr.Code),
		"status": status,
	}
	if status >= http.StatusInternalServerError {
		fields["details"] = stdErr.Details
		s.logger.Error("request failed", fields)
	} else {
		s.logger.Debug("request rejected", fields)
	}

	body := errorBody{Code: string(stdErr.Code), Message: stdErr.Message}
	if status < http.StatusInternalServerError {
		body.Details = stdErr.Details
	}
	c.AbortWithStatusJSON(status, gin.H{"error": body})
}

func (s *Server) badRequest(c *gin.Context, err error) {
	s.writeError(c, errors.NewValidationFailedError(err.Error()))
}
