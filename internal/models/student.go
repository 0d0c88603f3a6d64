package models

// StudentProfile is the applicant data the estimators read. GPA is on a percentage scale.
type StudentProfile struct {
	Name          string  `json:"name,omitempty" db:"name"`
	Email         string  `json:"email,omitempty" db:"email"`
	GPA           float64 `json:"gpa" db:"gpa"`
	SAT           float64 `json:"sat" db:"sat"`
	Activities    int     `json:"activities" db:"activities"`
	Essays        int     `json:"essays" db:"essays"`
	Country       string  `json:"country" db:"country"`
	FirstGen      bool    `json:"firstGen" db:"first_gen"`
	Ethnicity     string  `json:"ethnicity,omitempty" db:"ethnicity"`
	FinancialNeed bool    `json:"financialNeed" db:"financial_need"`
}

// DefaultStudentProfile is the profile a freshly registered student starts with.
func DefaultStudentProfile() StudentProfile {
	return StudentProfile{
		Name:       "Student",
		GPA:        85,
		SAT:        1450,
		Activities: 3,
		Essays:     1,
		Country:    "Canada",
	}
}
