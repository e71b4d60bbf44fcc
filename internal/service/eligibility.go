package service

import "github.com/prolink-edu/scholarship-api/internal/models"

// Eligibility failure reasons, one per failing criterion. Merit checks
// short-circuit in matric, intermediate, CGPA order so the reported
// reason is always the first threshold missed.
const (
	ReasonMatricInsufficient       = "matric percentage insufficient"
	ReasonIntermediateInsufficient = "intermediate percentage insufficient"
	ReasonCGPAInsufficient         = "CGPA insufficient"
	ReasonIncomeExceedsCeiling     = "family income exceeds the scholarship's ceiling"
)

// EligibilityResult is the outcome of a criteria evaluation. Reason is
// empty when Eligible is true.
type EligibilityResult struct {
	Eligible bool
	Reason   string
}

func eligible() EligibilityResult {
	return EligibilityResult{Eligible: true}
}

func ineligible(reason string) EligibilityResult {
	return EligibilityResult{Reason: reason}
}

// EvaluateEligibility decides whether a candidate profile satisfies a
// scholarship's type-specific criteria. Read-only over both arguments.
func EvaluateEligibility(scholarship *models.Scholarship, profile *models.StudentProfile) EligibilityResult {
	switch criteria := scholarship.Criteria().(type) {
	case models.MeritCriteria:
		return evaluateMerit(criteria, profile)
	case models.NeedCriteria:
		return evaluateNeed(criteria, profile)
	case models.NoCriteria:
		// Types outside merit/need carry no criteria and default to
		// eligible. Kept as an explicit case so the fallback is a
		// decision, not an accident.
		return eligible()
	default:
		return eligible()
	}
}

func evaluateMerit(criteria models.MeritCriteria, profile *models.StudentProfile) EligibilityResult {
	if profileValue(profile.MatricPercentage) < criteria.MatricPercentage {
		return ineligible(ReasonMatricInsufficient)
	}
	if profileValue(profile.IntermediatePercentage) < criteria.IntermediatePercentage {
		return ineligible(ReasonIntermediateInsufficient)
	}
	if profileValue(profile.BachelorCGPA) < criteria.BachelorCGPA {
		return ineligible(ReasonCGPAInsufficient)
	}
	return eligible()
}

func evaluateNeed(criteria models.NeedCriteria, profile *models.StudentProfile) EligibilityResult {
	if profileValue(profile.GrossIncome) > criteria.FamilyIncomeCeiling {
		return ineligible(ReasonIncomeExceedsCeiling)
	}
	return eligible()
}

func profileValue(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
