package models

import "time"

// StudentProfile aggregates everything the application pipeline reads
// about a candidate. Columns are nullable; a nil field means the
// student has not supplied it yet and the owning section is incomplete.
type StudentProfile struct {
	UserID string `db:"user_id" json:"user_id"`

	// About yourself
	Summary    *string `db:"summary" json:"summary,omitempty"`
	Objectives *string `db:"objectives" json:"objectives,omitempty"`

	// Biographical information
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	City        *string    `db:"city" json:"city,omitempty"`

	// Guardian information
	GuardianName       *string `db:"guardian_name" json:"guardian_name,omitempty"`
	GuardianOccupation *string `db:"guardian_occupation" json:"guardian_occupation,omitempty"`
	GuardianPhone      *string `db:"guardian_phone" json:"guardian_phone,omitempty"`

	// Nationality information
	Nationality *string `db:"nationality" json:"nationality,omitempty"`
	NationalID  *string `db:"national_id" json:"national_id,omitempty"`
	Domicile    *string `db:"domicile" json:"domicile,omitempty"`

	// Family details
	GrossIncome *float64 `db:"gross_income" json:"gross_income,omitempty"`
	Dependents  *int     `db:"dependents" json:"dependents,omitempty"`

	// Education record
	MatricPercentage       *float64 `db:"matric_percentage" json:"matric_percentage,omitempty"`
	IntermediatePercentage *float64 `db:"intermediate_percentage" json:"intermediate_percentage,omitempty"`
	BachelorCGPA           *float64 `db:"bachelor_cgpa" json:"bachelor_cgpa,omitempty"`

	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasAboutSection reports whether the about-yourself section is filled.
func (p *StudentProfile) HasAboutSection() bool {
	return notEmpty(p.Summary) && notEmpty(p.Objectives)
}

// HasBiographicalSection reports whether biographical data is filled.
func (p *StudentProfile) HasBiographicalSection() bool {
	return p.DateOfBirth != nil && notEmpty(p.Gender) && notEmpty(p.Address) && notEmpty(p.City)
}

// HasGuardianSection reports whether guardian information is filled.
func (p *StudentProfile) HasGuardianSection() bool {
	return notEmpty(p.GuardianName) && notEmpty(p.GuardianOccupation) && notEmpty(p.GuardianPhone)
}

// HasNationalitySection reports whether nationality information is filled.
func (p *StudentProfile) HasNationalitySection() bool {
	return notEmpty(p.Nationality) && notEmpty(p.NationalID) && notEmpty(p.Domicile)
}

// HasFamilySection reports whether family details are filled.
func (p *StudentProfile) HasFamilySection() bool {
	return p.GrossIncome != nil && p.Dependents != nil
}

// HasEducationSection reports whether the education record is filled.
func (p *StudentProfile) HasEducationSection() bool {
	return p.MatricPercentage != nil && p.IntermediatePercentage != nil && p.BachelorCGPA != nil
}

func notEmpty(s *string) bool {
	return s != nil && *s != ""
}
