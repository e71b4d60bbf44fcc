package service

import "github.com/prolink-edu/scholarship-api/internal/models"

// profileSections are the sections a profile must fill before the
// student may apply. Each carries equal weight in the score.
var profileSections = []func(*models.StudentProfile) bool{
	(*models.StudentProfile).HasAboutSection,
	(*models.StudentProfile).HasBiographicalSection,
	(*models.StudentProfile).HasGuardianSection,
	(*models.StudentProfile).HasNationalitySection,
	(*models.StudentProfile).HasFamilySection,
	(*models.StudentProfile).HasEducationSection,
}

// ProfileCompleteness derives a 0-100 score from the profile's current
// state. Pure function, recomputed on demand; the score is 100 exactly
// when every section the apply pipeline reads has been supplied.
func ProfileCompleteness(profile *models.StudentProfile) int {
	if profile == nil {
		return 0
	}
	complete := 0
	for _, section := range profileSections {
		if section(profile) {
			complete++
		}
	}
	if complete == len(profileSections) {
		return 100
	}
	return complete * 100 / len(profileSections)
}
