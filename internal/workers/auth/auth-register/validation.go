// internal/workers/auth/auth-register/validation.go
package authregister

import "collegeequity-workers/internal/common/validation"

func GetInputSchema(minPasswordLength int) validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"email", "password"},
		Properties: map[string]validation.Property{
			"email": {
				Type:        "string",
				Description: "Login e-mail, stored lowercased",
				Format:      "email",
				MaxLength:   validation.IntPtr(255),
			},
			"password": {
				Type:      "string",
				MinLength: validation.IntPtr(minPasswordLength),
				MaxLength: validation.IntPtr(72), // bcrypt input limit
			},
			"name": {
				Type:      "string",
				MaxLength: validation.IntPtr(100),
			},
		},
	}
}
