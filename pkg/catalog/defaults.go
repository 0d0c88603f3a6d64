// pkg/catalog/defaults.go
package catalog

import "collegeequity-workers/internal/models"

// Default returns a fresh copy of the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Version:      "1.0.0",
		LastUpdated:  "2025-01-01",
		Universities: defaultUniversities(),
		Scholarships: defaultScholarships(),
		Milestones:   DefaultMilestones(),
	}
}

func defaultUniversities() []models.InstitutionRecord {
	return []models.InstitutionRecord{
		{
			Name: "Harvard University", AcceptanceRate: "3.4%", Region: "North America", Type: "Ivy League",
			Location: "Cambridge, MA, USA", AverageSAT: 1520, AverageGPA: 95, Tuition: "$56,000 USD",
			Programs:              []string{"Computer Science", "Economics", "Biology", "Pre-Med", "Law"},
			Scholarships:          []string{"Need-Based Aid", "Merit Scholarships", "International Student Aid"},
			Highlights:            []string{"#1 Research University", "World-class Faculty", "Global Network"},
			Difficulty:            "Extremely Competitive",
			InternationalFriendly: true,
		},
		{
			Name: "University of Toronto", AcceptanceRate: "43%", Region: "North America", Type: "Top 50",
			Location: "Toronto, ON, Canada", AverageSAT: 1350, AverageGPA: 85, Tuition: "$14,000 CAD",
			Programs:              []string{"Life Sciences", "Engineering", "Business", "Arts & Science"},
			Scholarships:          []string{"Lester B. Pearson", "National Scholarship Program", "Canadian Merit Awards"},
			Highlights:            []string{"Diverse Community", "Research Opportunities", "Affordable Excellence"},
			Difficulty:            "Competitive",
			InternationalFriendly: true,
		},
		{
			Name: "McGill University", AcceptanceRate: "46%", Region: "North America", Type: "Top 50",
			Location: "Montreal, QC, Canada", AverageSAT: 1320, AverageGPA: 82, Tuition: "$12,000 CAD",
			Programs:              []string{"Medicine", "Engineering", "Business", "Liberal Arts"},
			Scholarships:          []string{"Entrance Scholarships", "International Student Awards"},
			Highlights:            []string{"Montreal Location", "Bilingual Environment", "Global Recognition"},
			Difficulty:            "Competitive",
			InternationalFriendly: true,
		},
		{
			Name: "University of British Columbia", AcceptanceRate: "52%", Region: "North America", Type: "Top 50",
			Location: "Vancouver, BC, Canada", AverageSAT: 1300, AverageGPA: 80, Tuition: "$13,500 CAD",
			Programs:              []string{"Computer Science", "Business", "Engineering", "Sciences"},
			Scholarships:          []string{"International Leader of Tomorrow", "Outstanding International Student Award"},
			Highlights:            []string{"Beautiful Campus", "Research Excellence", "International Community"},
			Difficulty:            "Competitive",
			InternationalFriendly: true,
		},
		{
			Name: "Stanford University", AcceptanceRate: "3.9%", Region: "North America", Type: "Top 10",
			Location: "Stanford, CA, USA", AverageSAT: 1505, AverageGPA: 96, Tuition: "$58,000 USD",
			Programs:              []string{"Engineering", "Computer Science", "Business", "Design", "Medicine"},
			Scholarships:          []string{"Knight-Hennessy Scholars", "International Student Aid"},
			Highlights:            []string{"Silicon Valley Location", "Innovation Hub", "Entrepreneurship"},
			Difficulty:            "Extremely Competitive",
			InternationalFriendly: true,
		},
		{
			Name: "MIT", AcceptanceRate: "4.1%", Region: "North America", Type: "Top 10",
			Location: "Cambridge, MA, USA", AverageSAT: 1535, AverageGPA: 98, Tuition: "$57,000 USD",
			Programs:              []string{"Engineering", "Computer Science", "Physics", "Mathematics"},
			Scholarships:          []string{"Need-Blind Admission", "International Student Support"},
			Highlights:            []string{"Technology Leader", "Innovation Culture", "Hands-on Learning"},
			Difficulty:            "Extremely Competitive",
			InternationalFriendly: true,
		},
	}
}

func defaultScholarships() []models.Scholarship {
	return []models.Scholarship{
		{
			Name:         "Lester B. Pearson International Scholarship",
			Amount:       "Full tuition + living expenses",
			Deadline:     "January 15",
			Category:     "International Students",
			Requirements: []string{"International student", "Academic excellence", "Leadership", "Community impact"},
			Description:  "Full scholarship for exceptional international students at University of Toronto",
			Location:     "Canada",
			Eligibility:  "International",
		},
		{
			Name:         "Pierre Elliott Trudeau Foundation Scholarship",
			Amount:       "$60,000/year",
			Deadline:     "December 1",
			Category:     "Academic Excellence",
			Requirements: []string{"Canadian/International", "Social sciences/humanities", "Leadership"},
			Description:  "For doctoral students in social sciences and humanities",
			Location:     "Canada",
			Eligibility:  "Canadian/International",
		},
		{
			Name:         "Gates Cambridge Scholarship",
			Amount:       "Full funding",
			Deadline:     "December 3",
			Category:     "International Students",
			Requirements: []string{"Non-UK citizen", "Academic excellence", "Leadership potential"},
			Description:  "Full scholarship for graduate study at Cambridge University",
			Location:     "UK",
			Eligibility:  "International",
		},
		{
			Name:         "Mastercard Foundation Scholars Program",
			Amount:       "Full scholarship",
			Deadline:     "Various",
			Category:     "Minority Students",
			Requirements: []string{"African heritage", "Financial need", "Leadership commitment"},
			Description:  "Comprehensive scholarship for African students",
			Location:     "Multiple",
			Eligibility:  "African students",
		},
		{
			Name:         "Jack Kent Cooke Foundation International",
			Amount:       "$40,000/year",
			Deadline:     "November 18",
			Category:     "Academic Excellence",
			Requirements: []string{"Top 5% of class", "Financial need", "Leadership activities"},
			Description:  "For high-achieving students with financial need",
			Location:     "USA/International",
			Eligibility:  "International",
		},
		{
			Name:         "Vanier Canada Graduate Scholarships",
			Amount:       "$50,000/year",
			Deadline:     "November 1",
			Category:     "Academic Excellence",
			Requirements: []string{"Canadian/International", "Doctoral studies", "Research excellence"},
			Description:  "For world-class doctoral students",
			Location:     "Canada",
			Eligibility:  "Canadian/International",
		},
		{
			Name:         "Rhodes Scholarship",
			Amount:       "Full funding",
			Deadline:     "October 1",
			Category:     "Leadership",
			Requirements: []string{"Academic excellence", "Leadership", "Service commitment"},
			Description:  "Prestigious scholarship for study at Oxford University",
			Location:     "UK",
			Eligibility:  "Multiple countries",
		},
		{
			Name:         "QuestBridge International",
			Amount:       "Full ride",
			Deadline:     "September 26",
			Category:     "Low-Income Students",
			Requirements: []string{"Low-income background", "Academic excellence", "First-generation"},
			Description:  "Full scholarships to top colleges for low-income students",
			Location:     "USA",
			Eligibility:  "International",
		},
	}
}

// DefaultMilestones is the standard application timeline. Research is already complete for a new student.
func DefaultMilestones() []models.Milestone {
	return []models.Milestone{
		{
			Title:       "College Research & List Building",
			Phase:       "Research",
			DueDate:     "12 months before",
			Description: "Research universities, create target list, understand requirements",
			Completed:   true,
		},
		{
			Title:       "Standardized Test Preparation",
			Phase:       "Testing",
			DueDate:     "10 months before",
			Description: "Prepare for and take SAT/ACT, consider retaking if needed",
		},
		{
			Title:       "Essay Brainstorming & Drafting",
			Phase:       "Essays",
			DueDate:     "6 months before",
			Description: "Brainstorm topics, write first drafts of personal statements",
		},
		{
			Title:       "Recommendation Letter Requests",
			Phase:       "Recommendations",
			DueDate:     "4 months before",
			Description: "Request letters from teachers, counselors, mentors",
		},
		{
			Title:       "Application Completion & Submission",
			Phase:       "Applications",
			DueDate:     "2 months before",
			Description: "Complete all applications, proofread, submit before deadlines",
		},
		{
			Title:       "Financial Aid & Scholarship Applications",
			Phase:       "Financial Aid",
			DueDate:     "1 month before",
			Description: "Complete FAFSA, CSS Profile, scholarship applications",
		},
	}
}
