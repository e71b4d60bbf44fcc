package dto

// Partial profile updates are expressed as explicit optional sections
// with named fields, merged field by field after validation. A nil
// section leaves the stored section untouched; a nil field inside a
// present section leaves that field untouched.

// AboutSection updates the about-yourself section.
type AboutSection struct {
	Summary    *string `json:"summary,omitempty"`
	Objectives *string `json:"objectives,omitempty"`
}

// BiographicalSection updates biographical data.
type BiographicalSection struct {
	DateOfBirth *string `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
}

// GuardianSection updates parental information.
type GuardianSection struct {
	Name       *string `json:"name,omitempty"`
	Occupation *string `json:"occupation,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

// NationalitySection updates nationality information.
type NationalitySection struct {
	Nationality *string `json:"nationality,omitempty"`
	NationalID  *string `json:"national_id,omitempty"`
	Domicile    *string `json:"domicile,omitempty"`
}

// FamilySection updates family details.
type FamilySection struct {
	GrossIncome *float64 `json:"gross_income,omitempty" validate:"omitempty,gte=0"`
	Dependents  *int     `json:"dependents,omitempty" validate:"omitempty,gte=0"`
}

// EducationSection updates the education record.
type EducationSection struct {
	MatricPercentage       *float64 `json:"matric_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	IntermediatePercentage *float64 `json:"intermediate_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	BachelorCGPA           *float64 `json:"bachelor_cgpa,omitempty" validate:"omitempty,gte=0,lte=4"`
}

// UpdateProfileRequest carries any subset of profile sections.
type UpdateProfileRequest struct {
	About        *AboutSection        `json:"about,omitempty"`
	Biographical *BiographicalSection `json:"biographical,omitempty"`
	Guardian     *GuardianSection     `json:"guardian,omitempty"`
	Nationality  *NationalitySection  `json:"nationality,omitempty"`
	Family       *FamilySection       `json:"family,omitempty"`
	Education    *EducationSection    `json:"education,omitempty"`
}

// Empty reports whether the request carries no sections at all.
func (r *UpdateProfileRequest) Empty() bool {
	return r.About == nil && r.Biographical == nil && r.Guardian == nil &&
		r.Nationality == nil && r.Family == nil && r.Education == nil
}

// ProfileResponse returns the stored profile plus the derived score.
type ProfileResponse struct {
	Profile      interface{} `json:"profile"`
	Completeness int         `json:"completeness"`
}
