package dto

// CreateMeritScholarshipRequest creates a merit award with minimum
// academic thresholds.
type CreateMeritScholarshipRequest struct {
	Name                   string  `json:"name" validate:"required"`
	Description            string  `json:"description"`
	MatricPercentage       float64 `json:"matric_percentage" validate:"gte=0,lte=100"`
	IntermediatePercentage float64 `json:"intermediate_percentage" validate:"gte=0,lte=100"`
	BachelorCGPA           float64 `json:"bachelor_cgpa" validate:"gte=0,lte=4"`
	Popularity             int     `json:"popularity" validate:"gte=0"`
	IssueDate              string  `json:"issue_date" validate:"required,datetime=2006-01-02"`
	CloseDate              string  `json:"close_date" validate:"required,datetime=2006-01-02"`
}

// CreateNeedScholarshipRequest creates a need award with a family
// income ceiling (a maximum, not a minimum).
type CreateNeedScholarshipRequest struct {
	Name                string  `json:"name" validate:"required"`
	Description         string  `json:"description"`
	FamilyIncomeCeiling float64 `json:"family_income_ceiling" validate:"gt=0"`
	Popularity          int     `json:"popularity" validate:"gte=0"`
	IssueDate           string  `json:"issue_date" validate:"required,datetime=2006-01-02"`
	CloseDate           string  `json:"close_date" validate:"required,datetime=2006-01-02"`
}

// ApplyRequest submits a scholarship application for the current user.
type ApplyRequest struct {
	ScholarshipID     string `json:"scholarshipId" validate:"required"`
	OtherRequirements string `json:"otherRequirements,omitempty"`
}

// ReviewApplicationRequest moves an application to approved/rejected.
type ReviewApplicationRequest struct {
	Status string `json:"status" validate:"required,oneof=awaiting approved rejected"`
}
