// internal/workers/student/update-profile/models.go
package updateprofile

import "collegeequity-workers/internal/models"

// Input carries a partial profile; only the fields present are changed.
type Input struct {
	UserID  string                 `json:"userId"`
	Profile map[string]interface{} `json:"profile"`
}

type Output struct {
	UserID        string                `json:"userId"`
	Profile       models.StudentProfile `json:"profile"`
	UpdatedFields []string              `json:"updatedFields"`
}
