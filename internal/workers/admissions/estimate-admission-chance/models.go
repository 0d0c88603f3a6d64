// internal/workers/admissions/estimate-admission-chance/models.go
package estimateadmissionchance

import (
	"collegeequity-workers/internal/admissions"
	"collegeequity-workers/internal/models"
)

// Input names the student either inline or by userId, and the institution either inline or by catalog name.
type Input struct {
	UserID          string                    `json:"userId,omitempty"`
	Profile         *models.StudentProfile    `json:"profile,omitempty"`
	Institution     *models.InstitutionRecord `json:"institution,omitempty"`
	InstitutionName string                    `json:"institutionName,omitempty"`
}

type Output struct {
	Institution string               `json:"institution"`
	Chance      float64              `json:"chance"`
	Variant     string               `json:"variant"`
	Explanation *admissions.Estimate `json:"explanation"`
}
