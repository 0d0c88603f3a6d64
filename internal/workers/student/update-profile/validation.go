// internal/workers/student/update-profile/validation.go
package updateprofile

import (
	"collegeequity-workers/internal/admissions"
	"collegeequity-workers/internal/common/validation"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"userId", "profile"},
		Properties: map[string]validation.Property{
			"userId": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
			},
			"profile": {
				Type:                 "object",
				Description:          "Fields to change; email and saved items are managed elsewhere",
				AdditionalProperties: validation.BoolPtr(false),
				Properties: map[string]validation.Property{
					"name": {
						Type:      "string",
						MinLength: validation.IntPtr(1),
						MaxLength: validation.IntPtr(100),
					},
					"gpa": {
						Type:    "number",
						Minimum: validation.FloatPtr(admissions.MinGPA),
						Maximum: validation.FloatPtr(admissions.MaxGPA),
					},
					"sat": {
						Type:    "number",
						Minimum: validation.FloatPtr(admissions.MinSAT),
						Maximum: validation.FloatPtr(admissions.MaxSAT),
					},
					"activities": {
						Type:    "integer",
						Minimum: validation.FloatPtr(0),
						Maximum: validation.FloatPtr(50),
					},
					"essays": {
						Type:    "integer",
						Minimum: validation.FloatPtr(0),
						Maximum: validation.FloatPtr(50),
					},
					"country": {
						Type:      "string",
						MaxLength: validation.IntPtr(100),
					},
					"firstGen":      {Type: "boolean"},
					"ethnicity":     {Type: "string", MaxLength: validation.IntPtr(100)},
					"financialNeed": {Type: "boolean"},
				},
			},
		},
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())
