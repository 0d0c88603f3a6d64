// internal/workers/admissions/estimate-admission-chance/validation.go
package estimateadmissionchance

import "collegeequity-workers/internal/common/validation"

// Range checks stay in the estimator so that out-of-domain values surface as INVALID_PROFILE.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"userId": {
				Type:        "string",
				Description: "Registered student whose stored profile is used",
				MinLength:   validation.IntPtr(1),
			},
			"profile": {
				Type:        "object",
				Description: "Inline student profile",
				Required:    []string{"gpa", "sat"},
				Properties: map[string]validation.Property{
					"gpa":        {Type: "number"},
					"sat":        {Type: "number"},
					"activities": {Type: "integer"},
					"essays":     {Type: "integer"},
					"country":    {Type: "string"},
					"firstGen":   {Type: "boolean"},
					"ethnicity":  {Type: "string"},
				},
			},
			"institution": {
				Type:     "object",
				Required: []string{"name", "acceptanceRate"},
				Properties: map[string]validation.Property{
					"name":           {Type: "string", MinLength: validation.IntPtr(1)},
					"acceptanceRate": {Type: "string"},
					"averageSAT":     {Type: "integer"},
					"averageGPA":     {Type: "integer"},
				},
			},
			"institutionName": {
				Type:      "string",
				MinLength: validation.IntPtr(1),
			},
		},
		AnyOf: []validation.Requirement{
			{Required: []string{"profile"}},
			{Required: []string{"userId"}},
		},
	}
}

var inputValidator = validation.MustCompile(GetInputSchema())
