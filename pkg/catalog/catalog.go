// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"collegeequity-workers/internal/admissions"
	"collegeequity-workers/internal/models"
)

// Load reads a catalog from a .yaml, .yml or .json file and validates it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cat Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cat)
	case ".json":
		err = json.Unmarshal(data, &cat)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &cat, nil
}

// LoadOrDefault loads path, or returns the built-in catalog when path is empty.
func LoadOrDefault(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks that names are unique and that every acceptance rate parses.
func (c *Catalog) Validate() error {
	var problems []string

	seen := make(map[string]bool, len(c.Universities))
	for i, u := range c.Universities {
		if u.Name == "" {
			problems = append(problems, fmt.Sprintf("universities[%d]: name is required", i))
			continue
		}
		if seen[u.Name] {
			problems = append(problems, fmt.Sprintf("universities[%d]: duplicate name %q", i, u.Name))
		}
		seen[u.Name] = true
		if _, err := admissions.ParseAcceptanceRate(u.AcceptanceRate); err != nil {
			problems = append(problems, fmt.Sprintf("universities[%d] %s: %v", i, u.Name, err))
		}
	}

	seen = make(map[string]bool, len(c.Scholarships))
	for i, s := range c.Scholarships {
		if s.Name == "" {
			problems = append(problems, fmt.Sprintf("scholarships[%d]: name is required", i))
			continue
		}
		if seen[s.Name] {
			problems = append(problems, fmt.Sprintf("scholarships[%d]: duplicate name %q", i, s.Name))
		}
		seen[s.Name] = true
	}

	for i, m := range c.Milestones {
		if m.Title == "" {
			problems = append(problems, fmt.Sprintf("milestones[%d]: title is required", i))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid catalog: %s", strings.Join(problems, "; "))
	}
	return nil
}

// University finds a university by exact name, falling back to a case-insensitive match.
func (c *Catalog) University(name string) (models.InstitutionRecord, bool) {
	for _, u := range c.Universities {
		if u.Name == name {
			return u, true
		}
	}
	for _, u := range c.Universities {
		if strings.EqualFold(u.Name, strings.TrimSpace(name)) {
			return u, true
		}
	}
	return models.InstitutionRecord{}, false
}

// Scholarship finds a scholarship by exact name.
func (c *Catalog) Scholarship(name string) (models.Scholarship, bool) {
	for _, s := range c.Scholarships {
		if s.Name == name {
			return s, true
		}
	}
	return models.Scholarship{}, false
}

// Has reports whether an item of kind with name exists.
func (c *Catalog) Has(kind models.ItemKind, name string) bool {
	switch kind {
	case models.ItemUniversity:
		_, ok := c.University(name)
		return ok
	case models.ItemScholarship:
		_, ok := c.Scholarship(name)
		return ok
	}
	return false
}

// FilterUniversities returns the universities matching f, in catalog order.
func (c *Catalog) FilterUniversities(f UniversityFilter) []models.InstitutionRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.InstitutionRecord, 0, len(c.Universities))
	for _, u := range c.Universities {
		if !wildcard(f.Region, AllRegions) && u.Region != f.Region {
			continue
		}
		if !wildcard(f.Type, AllTypes) && u.Type != f.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(u.Name), search) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// UniversitiesNamed returns the catalog records for names, in the order given, skipping unknown names.
func (c *Catalog) UniversitiesNamed(names []string) []models.InstitutionRecord {
	out := make([]models.InstitutionRecord, 0, len(names))
	for _, name := range names {
		if u, ok := c.University(name); ok {
			out = append(out, u)
		}
	}
	return out
}

// MatchScholarships returns the scholarships in category that a student from country is eligible for.
// Canadian students qualify for Canadian or International eligibility; everyone else for International
// eligibility or scholarships offered in multiple locations.
func (c *Catalog) MatchScholarships(country, category string) []models.Scholarship {
	out := make([]models.Scholarship, 0, len(c.Scholarships))
	for _, s := range c.Scholarships {
		if !wildcard(category, AllCategories) && s.Category != category {
			continue
		}
		if !Eligible(s, country) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Eligible applies the country eligibility rule to one scholarship.
func Eligible(s models.Scholarship, country string) bool {
	if country == "Canada" {
		return strings.Contains(s.Eligibility, "Canadian") || strings.Contains(s.Eligibility, "International")
	}
	return strings.Contains(s.Eligibility, "International") || s.Location == "Multiple"
}

// Summarize computes progress over milestones.
func Summarize(milestones []models.Milestone) MilestoneSummary {
	sum := MilestoneSummary{Total: len(milestones)}
	for i := range milestones {
		if milestones[i].Completed {
			sum.Completed++
		} else if sum.Next == nil {
			next := milestones[i]
			sum.Next = &next
		}
	}
	if sum.Total > 0 {
		sum.Progress = math.Round(float64(sum.Completed)/float64(sum.Total)*1000) / 10
	}
	return sum
}

func wildcard(value, all string) bool {
	return value == "" || value == all
}
