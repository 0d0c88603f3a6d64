// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Admission and essay errors
const (
	ErrCodeInvalidProfile                ErrorCode = "INVALID_PROFILE"
	ErrCodeInvalidInstitutionData        ErrorCode = "INVALID_INSTITUTION_DATA"
	ErrCodeInstitutionNotFound           ErrorCode = "INSTITUTION_NOT_FOUND"
	ErrCodeAnalysisPreconditionViolation ErrorCode = "ANALYSIS_PRECONDITION_VIOLATION"
	ErrCodeValidationFailed              ErrorCode = "VALIDATION_FAILED"
)

// Account and session errors
const (
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeDuplicateUser      ErrorCode = "DUPLICATE_USER"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
)

// Infrastructure errors
const (
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeCacheUnavailable         ErrorCode = "CACHE_UNAVAILABLE"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout            ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidProfileError(details string) *StandardError {
	return newError(ErrCodeInvalidProfile, "Student profile is out of domain", details, false)
}

func NewInvalidInstitutionDataError(institution, details string) *StandardError {
	return newError(ErrCodeInvalidInstitutionData, "Institution record cannot be used for estimation",
		fmt.Sprintf("institution: %s, %s", institution, details), false)
}

func NewInstitutionNotFoundError(name string) *StandardError {
	return newError(ErrCodeInstitutionNotFound, "Institution not found in catalog", fmt.Sprintf("name: %s", name), false)
}

func NewAnalysisPreconditionError(wordCount, minimum int) *StandardError {
	return newError(ErrCodeAnalysisPreconditionViolation, "Essay is below the minimum length for analysis",
		fmt.Sprintf("wordCount: %d, minimum: %d", wordCount, minimum), false)
}

func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Input validation failed", details, false)
}

func NewUserNotFoundError(userID string) *StandardError {
	return newError(ErrCodeUserNotFound, "User not found", fmt.Sprintf("userId: %s", userID), false)
}

func NewDuplicateUserError(email string) *StandardError {
	return newError(ErrCodeDuplicateUser, "An account with this email already exists", fmt.Sprintf("email: %s", email), false)
}

func NewInvalidCredentialsError() *StandardError {
	return newError(ErrCodeInvalidCredentials, "Email or password is incorrect", "", false)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Session not found or expired", fmt.Sprintf("sessionId: %s", sessionID), false)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewQueryTimeoutError(operation string) *StandardError {
	return newError(ErrCodeQueryTimeout, "Database query timeout", fmt.Sprintf("operation: %s", operation), true)
}

func NewCacheUnavailableError(err error) *StandardError {
	return newError(ErrCodeCacheUnavailable, "Session cache unavailable", err.Error(), true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Search query failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewSearchTimeoutError(index string) *StandardError {
	return newError(ErrCodeSearchTimeout, "Search query timeout", fmt.Sprintf("index: %s", index), true)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal codes to the error codes modelled in the BPMN diagrams.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidProfile:                "INVALID_PROFILE",
	ErrCodeInvalidInstitutionData:        "INVALID_INSTITUTION_DATA",
	ErrCodeInstitutionNotFound:           "INSTITUTION_NOT_FOUND",
	ErrCodeAnalysisPreconditionViolation: "ESSAY_TOO_SHORT",
	ErrCodeValidationFailed:              "VALIDATION_FAILED",
	ErrCodeUserNotFound:                  "USER_NOT_FOUND",
	ErrCodeDuplicateUser:                 "DUPLICATE_USER",
	ErrCodeInvalidCredentials:            "AUTH_FAILED",
	ErrCodeSessionNotFound:               "AUTH_FAILED",
	ErrCodeDatabaseConnectionFailed:      "DATABASE_ERROR",
	ErrCodeQueryExecutionFailed:          "DATABASE_ERROR",
	ErrCodeQueryTimeout:                  "DATABASE_ERROR",
	ErrCodeCacheUnavailable:              "CACHE_ERROR",
	ErrCodeSearchQueryFailed:             "SEARCH_ERROR",
	ErrCodeSearchTimeout:                 "SEARCH_ERROR",
	ErrCodeNotificationSendFailed:        "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeCacheUnavailable,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3

	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2

	default:
		return 0 // business errors
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err to a *StandardError if one is in its chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Normalize always returns a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return NewInternalError(err)
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PROFILE") || strings.Contains(codeStr, "INSTITUTION"):
		return "ADMISSIONS"
	case strings.Contains(codeStr, "ANALYSIS"):
		return "ESSAY"
	case strings.Contains(codeStr, "USER") || strings.Contains(codeStr, "CREDENTIALS") || strings.Contains(codeStr, "SESSION"):
		return "AUTH"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
