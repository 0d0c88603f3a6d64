// internal/workers/essays/analyze-essay/models.go
package analyzeessay

import "collegeequity-workers/internal/models"

type Input struct {
	UserID string `json:"userId,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Essay  string `json:"essay"`
}

type Output struct {
	Feedback *models.EssayFeedback `json:"feedback"`
	Variant  string                `json:"variant"`
}
