// internal/workers/student/toggle-saved-item/models.go
package togglesaveditem

import "collegeequity-workers/internal/models"

type Input struct {
	UserID string          `json:"userId"`
	Kind   models.ItemKind `json:"kind"`
	Name   string          `json:"name"`
}

type Output struct {
	Kind  models.ItemKind    `json:"kind"`
	Name  string             `json:"name"`
	Saved bool               `json:"saved"`
	Items []models.SavedItem `json:"items"`
}
