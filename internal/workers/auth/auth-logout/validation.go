// internal/workers/auth/auth-logout/validation.go
package authlogout

import "collegeequity-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"userId"},
		Properties: map[string]validation.Property{
			"userId": {
				Type:        "string",
				Description: "User identifier",
				MinLength:   validation.IntPtr(1),
				MaxLength:   validation.IntPtr(255),
			},
			"sessionId": {
				Type:        "string",
				Description: "Session identifier to invalidate",
				MaxLength:   validation.IntPtr(255),
			},
			"logoutAll": {
				Type:        "boolean",
				Description: "Whether to logout from all sessions",
			},
			"reason": {
				Type:        "string",
				Description: "Reason for logout",
				MaxLength:   validation.IntPtr(500),
			},
		},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"success", "message", "sessionsInvalidated", "logoutAt"},
		Properties: map[string]validation.Property{
			"success": {
				Type:        "boolean",
				Description: "Whether logout was successful",
			},
			"message": {
				Type:        "string",
				Description: "Result message",
			},
			"sessionsInvalidated": {
				Type:        "integer",
				Description: "Number of sessions invalidated",
				Minimum:     validation.FloatPtr(0),
			},
			"logoutAt": {
				Type:        "string",
				Description: "Timestamp of logout",
				Format:      "date-time",
			},
		},
		AdditionalProperties: validation.BoolPtr(false),
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())
