// internal/workers/admissions/annotate-institutions/models.go
package annotateinstitutions

import "collegeequity-workers/internal/models"

const (
	SourceCatalog       = "catalog"
	SourceElasticsearch = "elasticsearch"
)

// Input filters the catalog. Empty Region/Type, or the "All Regions"/"All Types" wildcards, match everything.
type Input struct {
	UserID  string                 `json:"userId,omitempty"`
	Profile *models.StudentProfile `json:"profile,omitempty"`
	Region  string                 `json:"region,omitempty"`
	Type    string                 `json:"type,omitempty"`
	Search  string                 `json:"search,omitempty"`
}

// AnnotatedUniversity is a catalog record with the student's estimated chance.
type AnnotatedUniversity struct {
	models.InstitutionRecord
	Chance float64 `json:"chance"`
	Tier   string  `json:"tier"`
}

type Output struct {
	Universities []AnnotatedUniversity `json:"universities"`
	Count        int                   `json:"count"`
	SearchSource string                `json:"searchSource"`
}
