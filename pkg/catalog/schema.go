// pkg/catalog/schema.go
package catalog

import "collegeequity-workers/internal/models"

// Catalog is the read-only reference data the estimators and listings work from.
type Catalog struct {
	Version      string                     `json:"version" yaml:"version"`
	LastUpdated  string                     `json:"lastUpdated" yaml:"lastUpdated"`
	Universities []models.InstitutionRecord `json:"universities" yaml:"universities"`
	Scholarships []models.Scholarship       `json:"scholarships" yaml:"scholarships"`
	Milestones   []models.Milestone         `json:"milestones" yaml:"milestones"`
}

// Filter wildcards used by the UI selectors.
const (
	AllRegions    = "All Regions"
	AllTypes      = "All Types"
	AllCategories = "All"
)

// UniversityFilter narrows the university listing. Empty fields match everything.
type UniversityFilter struct {
	Region string `json:"region,omitempty"`
	Type   string `json:"type,omitempty"`
	Search string `json:"search,omitempty"`
}

// MilestoneSummary is the progress over a milestone list.
type MilestoneSummary struct {
	Total     int               `json:"total"`
	Completed int               `json:"completed"`
	Progress  float64           `json:"progress"` // percent, one decimal
	Next      *models.Milestone `json:"next,omitempty"`
}
