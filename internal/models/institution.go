package models

// InstitutionRecord is read-only reference data about a university.
// AcceptanceRate keeps the catalog's percentage string ("3.4%"); it is parsed when a chance is estimated.
type InstitutionRecord struct {
	Name                  string   `json:"name" yaml:"name"`
	AcceptanceRate        string   `json:"acceptanceRate" yaml:"acceptanceRate"`
	Region                string   `json:"region" yaml:"region"`
	Location              string   `json:"location,omitempty" yaml:"location"`
	Type                  string   `json:"type,omitempty" yaml:"type"`
	AverageSAT            int      `json:"averageSAT" yaml:"averageSAT"`
	AverageGPA            int      `json:"averageGPA" yaml:"averageGPA"`
	Tuition               string   `json:"tuition,omitempty" yaml:"tuition"`
	Programs              []string `json:"programs,omitempty" yaml:"programs"`
	Scholarships          []string `json:"scholarships,omitempty" yaml:"scholarships"`
	Highlights            []string `json:"highlights,omitempty" yaml:"highlights"`
	Difficulty            string   `json:"difficulty,omitempty" yaml:"difficulty"`
	InternationalFriendly bool     `json:"internationalFriendly" yaml:"internationalFriendly"`
}

// Scholarship is a funding opportunity listed in the catalog.
type Scholarship struct {
	Name         string   `json:"name" yaml:"name"`
	Amount       string   `json:"amount" yaml:"amount"`
	Deadline     string   `json:"deadline" yaml:"deadline"`
	Category     string   `json:"category" yaml:"category"`
	Requirements []string `json:"requirements,omitempty" yaml:"requirements"`
	Description  string   `json:"description,omitempty" yaml:"description"`
	Location     string   `json:"location" yaml:"location"`
	Eligibility  string   `json:"eligibility" yaml:"eligibility"`
}

// Milestone is one step of the application timeline.
type Milestone struct {
	Title       string `json:"title" yaml:"title"`
	Phase       string `json:"phase" yaml:"phase"`
	DueDate     string `json:"dueDate" yaml:"dueDate"`
	Description string `json:"description,omitempty" yaml:"description"`
	Completed   bool   `json:"completed" yaml:"completed"`
}
