// Package admissions estimates how likely a student is to be admitted to an institution.
//
// The estimate scales the institution's published acceptance rate by a step-function tier
// multiplier (how the student's GPA and SAT compare to the institution's averages) and a set of
// compounding profile adjustments, then caps the result at MaxChance. Estimation is pure and
// safe for concurrent use.
package admissions

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"collegeequity-workers/internal/models"
)

// MaxChance is the ceiling applied to every estimate, in percent.
const MaxChance = 85.0

// Profile domain bounds.
const (
	MinGPA = 0.0
	MaxGPA = 100.0
	MinSAT = 400.0
	MaxSAT = 1600.0
)

var (
	ErrInvalidProfile         = errors.New("invalid profile")
	ErrInvalidInstitutionData = errors.New("invalid institution data")
)

// Variant selects the multiplier table.
type Variant string

const (
	// VariantExtended uses five tiers and all profile adjustments.
	VariantExtended Variant = "extended"
	// VariantClassic uses the legacy three-tier table with only the Canada bonus.
	VariantClassic Variant = "classic"
)

// ParseVariant maps a config value onto a Variant; empty means extended.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case "", VariantExtended:
		return VariantExtended, nil
	case VariantClassic:
		return VariantClassic, nil
	default:
		return "", fmt.Errorf("unknown admissions variant %q", s)
	}
}

// Tier names, from strongest to weakest.
const (
	TierStrong      = "strong"
	TierCompetitive = "competitive"
	TierMixed       = "mixed"
	TierReach       = "reach"
	TierLongShot    = "long-shot"
)

type tier struct {
	name       string
	multiplier float64
	gpaSlack   float64
	satSlack   float64
	either     bool // gpa OR sat at target, slack ignored
}

func (t tier) matches(gpa, sat, targetGPA, targetSAT float64) bool {
	if t.either {
		return gpa >= targetGPA || sat >= targetSAT
	}
	return gpa >= targetGPA-t.gpaSlack && sat >= targetSAT-t.satSlack
}

// Tiers are evaluated in order and the first match wins. Every condition is monotone in GPA and
// SAT and multipliers strictly decrease down the table, so raising either score never lowers the tier.
var (
	extendedTiers = []tier{
		{name: TierStrong, multiplier: 2.8},
		{name: TierCompetitive, multiplier: 2.2, gpaSlack: 3, satSlack: 30},
		{name: TierMixed, multiplier: 1.8, either: true},
		{name: TierReach, multiplier: 1.4, gpaSlack: 8, satSlack: 80},
	}
	classicTiers = []tier{
		{name: TierStrong, multiplier: 2.5},
		{name: TierMixed, multiplier: 1.8, either: true},
		{name: TierReach, multiplier: 1.3, gpaSlack: 5, satSlack: 50},
	}
)

var canadianMarkers = []string{
	"toronto", "mcgill", "montreal", "ubc", "british columbia", "vancouver", "waterloo",
	"mcmaster", "ottawa", "alberta", "calgary", "queen's", "canada",
}

var underrepresented = map[string]struct{}{
	"black":            {},
	"african american": {},
	"hispanic":         {},
	"latino":           {},
	"latina":           {},
	"latinx":           {},
	"indigenous":       {},
	"native american":  {},
	"first nations":    {},
	"metis":            {},
	"métis":            {},
	"inuit":            {},
	"pacific islander": {},
	"native hawaiian":  {},
}

// Adjustment is one multiplicative factor applied on top of the tier.
type Adjustment struct {
	Reason     string  `json:"reason"`
	Multiplier float64 `json:"multiplier"`
}

// Estimate is an admission chance together with how it was derived.
type Estimate struct {
	Institution    string       `json:"institution"`
	Chance         float64      `json:"chance"`
	AcceptanceRate float64      `json:"acceptanceRate"`
	Tier           string       `json:"tier"`
	TierMultiplier float64      `json:"tierMultiplier"`
	Adjustments    []Adjustment `json:"adjustments"`
	Multiplier     float64      `json:"multiplier"`
	Uncapped       float64      `json:"uncapped"`
	Capped         bool         `json:"capped"`
}

// Estimator computes admission chances for one variant.
type Estimator struct {
	variant Variant
}

// New returns an Estimator; an unknown variant falls back to extended.
func New(variant Variant) *Estimator {
	if variant != VariantClassic {
		variant = VariantExtended
	}
	return &Estimator{variant: variant}
}

// Variant reports which table the estimator uses.
func (e *Estimator) Variant() Variant {
	return e.variant
}

// Estimate computes the admission chance of profile at institution.
// Out-of-domain profiles and unparseable acceptance rates are rejected, never clamped.
func (e *Estimator) Estimate(profile models.StudentProfile, institution models.InstitutionRecord) (*Estimate, error) {
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}
	rate, err := ParseAcceptanceRate(institution.AcceptanceRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInstitutionData, institution.Name, err)
	}

	t := e.selectTier(profile.GPA, profile.SAT, float64(institution.AverageGPA), float64(institution.AverageSAT))
	adjustments := e.adjustments(profile, institution)

	multiplier := t.multiplier
	for _, adj := range adjustments {
		multiplier *= adj.Multiplier
	}

	uncapped := rate * multiplier
	chance := math.Min(uncapped, MaxChance)

	return &Estimate{
		Institution:    institution.Name,
		Chance:         roundTenth(chance),
		AcceptanceRate: rate,
		Tier:           t.name,
		TierMultiplier: t.multiplier,
		Adjustments:    adjustments,
		Multiplier:     multiplier,
		Uncapped:       uncapped,
		Capped:         uncapped > MaxChance,
	}, nil
}

// Chance is Estimate without the explanation.
func (e *Estimator) Chance(profile models.StudentProfile, institution models.InstitutionRecord) (float64, error) {
	est, err := e.Estimate(profile, institution)
	if err != nil {
		return 0, err
	}
	return est.Chance, nil
}

func (e *Estimator) selectTier(gpa, sat, targetGPA, targetSAT float64) tier {
	table := extendedTiers
	if e.variant == VariantClassic {
		table = classicTiers
	}
	for _, t := range table {
		if t.matches(gpa, sat, targetGPA, targetSAT) {
			return t
		}
	}
	return tier{name: TierLongShot, multiplier: 1.0}
}

func (e *Estimator) adjustments(profile models.StudentProfile, institution models.InstitutionRecord) []Adjustment {
	adjustments := []Adjustment{}

	if e.variant == VariantExtended {
		switch {
		case profile.Activities >= 5:
			adjustments = append(adjustments, Adjustment{Reason: "5+ extracurricular activities", Multiplier: 1.2})
		case profile.Activities >= 3:
			adjustments = append(adjustments, Adjustment{Reason: "3+ extracurricular activities", Multiplier: 1.1})
		}

		switch {
		case profile.Essays >= 3:
			adjustments = append(adjustments, Adjustment{Reason: "3+ essays completed", Multiplier: 1.15})
		case profile.Essays >= 1:
			adjustments = append(adjustments, Adjustment{Reason: "essay completed", Multiplier: 1.05})
		}

		if profile.FirstGen {
			adjustments = append(adjustments, Adjustment{Reason: "first-generation student", Multiplier: 1.1})
		}

		if IsUnderrepresented(profile.Ethnicity) {
			adjustments = append(adjustments, Adjustment{Reason: "underrepresented background", Multiplier: 1.15})
		}
	}

	if profile.Country == "Canada" && IsCanadian(institution) {
		bonus := 1.3
		if e.variant == VariantClassic {
			bonus = 1.2
		}
		adjustments = append(adjustments, Adjustment{Reason: "Canadian student at Canadian institution", Multiplier: bonus})
	}

	return adjustments
}

// ValidateProfile checks the numeric fields the estimator reads.
func ValidateProfile(p models.StudentProfile) error {
	switch {
	case math.IsNaN(p.GPA) || p.GPA < MinGPA || p.GPA > MaxGPA:
		return fmt.Errorf("%w: gpa %v outside [%v, %v]", ErrInvalidProfile, p.GPA, MinGPA, MaxGPA)
	case math.IsNaN(p.SAT) || p.SAT < MinSAT || p.SAT > MaxSAT:
		return fmt.Errorf("%w: sat %v outside [%v, %v]", ErrInvalidProfile, p.SAT, MinSAT, MaxSAT)
	case p.Activities < 0:
		return fmt.Errorf("%w: activities %d is negative", ErrInvalidProfile, p.Activities)
	case p.Essays < 0:
		return fmt.Errorf("%w: essays %d is negative", ErrInvalidProfile, p.Essays)
	}
	return nil
}

// ParseAcceptanceRate reads the leading number of a percentage string: "43%", "3.4 %" and "52" all parse.
func ParseAcceptanceRate(s string) (float64, error) {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			end++
			continue
		}
		if c == '.' && !seenDot {
			seenDot = true
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, fmt.Errorf("acceptance rate %q is not a number", s)
	}
	rate, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, fmt.Errorf("acceptance rate %q: %w", s, err)
	}
	if rate > 100 {
		return 0, fmt.Errorf("acceptance rate %q exceeds 100%%", s)
	}
	return rate, nil
}

// IsCanadian reports whether the institution's name, region or location names a Canadian place.
func IsCanadian(institution models.InstitutionRecord) bool {
	haystack := strings.ToLower(institution.Name + " " + institution.Region + " " + institution.Location)
	for _, marker := range canadianMarkers {
		if strings.Contains(haystack, marker) {
			return true
		}
	}
	return false
}

// IsUnderrepresented reports whether ethnicity is in the fixed underrepresented set.
func IsUnderrepresented(ethnicity string) bool {
	_, ok := underrepresented[strings.ToLower(strings.TrimSpace(ethnicity))]
	return ok
}

// roundTenth rounds half away from zero to one decimal place.
func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
