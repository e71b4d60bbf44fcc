package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prolink-edu/scholarship-api/internal/models"
)

func meritScholarship(matric, inter, cgpa float64) *models.Scholarship {
	return &models.Scholarship{
		ID:                     "sch-merit",
		Type:                   models.ScholarshipTypeMerit,
		MatricPercentage:       &matric,
		IntermediatePercentage: &inter,
		BachelorCGPA:           &cgpa,
	}
}

func needScholarship(ceiling float64) *models.Scholarship {
	return &models.Scholarship{
		ID:                  "sch-need",
		Type:                models.ScholarshipTypeNeed,
		FamilyIncomeCeiling: &ceiling,
	}
}

func TestEligibilityMeritAllThresholdsMet(t *testing.T) {
	result := EvaluateEligibility(meritScholarship(80, 75, 3.0), completeProfile())
	assert.True(t, result.Eligible)
	assert.Empty(t, result.Reason)
}

func TestEligibilityMeritBoundaryValuesPass(t *testing.T) {
	// Minimums are inclusive: exact matches qualify.
	result := EvaluateEligibility(meritScholarship(82, 70, 3.5), completeProfile())
	assert.True(t, result.Eligible)
}

func TestEligibilityMeritIntermediateShortfall(t *testing.T) {
	profile := completeProfile()
	profile.MatricPercentage = floatPtr(82)
	profile.IntermediatePercentage = floatPtr(70)
	profile.BachelorCGPA = floatPtr(3.5)

	result := EvaluateEligibility(meritScholarship(80, 75, 3.0), profile)
	assert.False(t, result.Eligible)
	assert.Equal(t, ReasonIntermediateInsufficient, result.Reason)
}

func TestEligibilityMeritReportsFirstFailureOnly(t *testing.T) {
	profile := completeProfile()
	profile.MatricPercentage = floatPtr(50)
	profile.IntermediatePercentage = floatPtr(50)
	profile.BachelorCGPA = floatPtr(1.0)

	result := EvaluateEligibility(meritScholarship(80, 75, 3.0), profile)
	assert.False(t, result.Eligible)
	assert.Equal(t, ReasonMatricInsufficient, result.Reason)
}

func TestEligibilityMeritCGPAShortfall(t *testing.T) {
	profile := completeProfile()
	profile.BachelorCGPA = floatPtr(2.9)

	result := EvaluateEligibility(meritScholarship(80, 70, 3.0), profile)
	assert.False(t, result.Eligible)
	assert.Equal(t, ReasonCGPAInsufficient, result.Reason)
}

func TestEligibilityNeedWithinCeiling(t *testing.T) {
	profile := completeProfile()
	profile.GrossIncome = floatPtr(45000)

	result := EvaluateEligibility(needScholarship(50000), profile)
	assert.True(t, result.Eligible)
}

func TestEligibilityNeedAtCeilingQualifies(t *testing.T) {
	profile := completeProfile()
	profile.GrossIncome = floatPtr(50000)

	result := EvaluateEligibility(needScholarship(50000), profile)
	assert.True(t, result.Eligible)
}

func TestEligibilityNeedAboveCeiling(t *testing.T) {
	profile := completeProfile()
	profile.GrossIncome = floatPtr(50001)

	result := EvaluateEligibility(needScholarship(50000), profile)
	assert.False(t, result.Eligible)
	assert.Equal(t, ReasonIncomeExceedsCeiling, result.Reason)
}

func TestEligibilityUnknownTypeDefaultsToEligible(t *testing.T) {
	scholarship := &models.Scholarship{ID: "sch-x", Type: "athletic"}
	result := EvaluateEligibility(scholarship, completeProfile())
	assert.True(t, result.Eligible)
}

func TestEligibilityMissingProfileValuesCountAsZero(t *testing.T) {
	profile := completeProfile()
	profile.MatricPercentage = nil

	result := EvaluateEligibility(meritScholarship(80, 70, 3.0), profile)
	assert.False(t, result.Eligible)
	assert.Equal(t, ReasonMatricInsufficient, result.Reason)
}
