// internal/workers/scholarships/match-scholarships/models.go
package matchscholarships

import "collegeequity-workers/internal/models"

// Input gives the student's country directly, or a userId whose stored profile supplies it.
type Input struct {
	UserID   string `json:"userId,omitempty"`
	Country  string `json:"country,omitempty"`
	Category string `json:"category,omitempty"`
}

type Output struct {
	Country      string               `json:"country"`
	Category     string               `json:"category"`
	Scholarships []models.Scholarship `json:"scholarships"`
	Count        int                  `json:"count"`
}
