// internal/workers/planning/track-milestones/models.go
package trackmilestones

import "collegeequity-workers/internal/models"

// Input carries the student's current timeline. Without milestones the catalog timeline is used.
// Toggle flips the completion flag of the milestones with these titles before summarizing.
type Input struct {
	UserID     string             `json:"userId,omitempty"`
	Milestones []models.Milestone `json:"milestones,omitempty"`
	Toggle     []string           `json:"toggle,omitempty"`
}

type Output struct {
	Milestones []models.Milestone `json:"milestones"`
	Total      int                `json:"total"`
	Completed  int                `json:"completed"`
	Progress   float64            `json:"progress"`
	Next       *models.Milestone  `json:"next,omitempty"`
}
