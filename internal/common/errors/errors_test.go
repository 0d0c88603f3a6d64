package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"short essay is a business error", NewAnalysisPreconditionError(42, 100), "ESSAY_TOO_SHORT", 0},
		{"bad rate is a business error", NewInvalidInstitutionDataError("MIT", "rate: abc"), "INVALID_INSTITUTION_DATA", 0},
		{"query failure retries", NewQueryExecutionFailedError("get_profile", stderrors.New("conn reset")), "DATABASE_ERROR", 3},
		{"search timeout retries twice", NewSearchTimeoutError("universities"), "SEARCH_ERROR", 2},
		{"unknown code falls through", &StandardError{Code: "SOMETHING_ELSE", Retryable: true}, "SOMETHING_ELSE", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	stdErr := NewAnalysisPreconditionError(80, 100).WithMetadata("wordCount", 80)
	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, 80, vars["wordCount"])
	assert.Equal(t, "ESSAY_TOO_SHORT", vars["errorCode"])
	assert.Equal(t, false, vars["retryable"])
}

func TestNormalize(t *testing.T) {
	wrapped := fmt.Errorf("estimate: %w", NewInvalidProfileError("gpa: 120"))

	stdErr := Normalize(wrapped)
	assert.Equal(t, ErrCodeInvalidProfile, stdErr.Code)
	assert.True(t, HasCode(wrapped, ErrCodeInvalidProfile))

	plain := Normalize(stderrors.New("nil pointer"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
	assert.Contains(t, plain.Details, "nil pointer")
}

func TestStandardError_Error(t *testing.T) {
	err := NewInstitutionNotFoundError("Hogwarts")
	assert.Equal(t, "INSTITUTION_NOT_FOUND: Institution not found in catalog (name: Hogwarts)", err.Error())

	bare := &StandardError{Code: ErrCodeInternal, Message: "Unexpected error"}
	assert.Equal(t, "INTERNAL_ERROR: Unexpected error", bare.Error())
}

func TestGetErrorCategory(t *testing.T) {
	cases := map[ErrorCode]string{
		ErrCodeInvalidProfile:                "ADMISSIONS",
		ErrCodeInstitutionNotFound:           "ADMISSIONS",
		ErrCodeAnalysisPreconditionViolation: "ESSAY",
		ErrCodeInvalidCredentials:            "AUTH",
		ErrCodeSessionNotFound:               "AUTH",
		ErrCodeQueryTimeout:                  "DATABASE",
		ErrCodeCacheUnavailable:              "CACHE",
		ErrCodeSearchQueryFailed:             "SEARCH",
		ErrCodeNotificationSendFailed:        "NOTIFICATION",
		ErrCodeValidationFailed:              "VALIDATION",
		ErrCodeInternal:                      "OTHER",
	}
	for code, want := range cases {
		assert.Equal(t, want, GetErrorCategory(code), string(code))
	}
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, int32(2), RemainingRetries(2, 3))
	assert.Equal(t, int32(3), RemainingRetries(5, 3))
	assert.Equal(t, int32(3), RemainingRetries(0, 3))
}

func TestRetryability(t *testing.T) {
	require.True(t, IsRetryableErrorCode(ErrCodeNotificationSendFailed))
	require.False(t, IsRetryableErrorCode(ErrCodeDuplicateUser))
}
