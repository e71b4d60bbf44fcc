package models

import "time"

// ScholarshipType selects which eligibility criteria apply.
type ScholarshipType string

const (
	ScholarshipTypeMerit ScholarshipType = "merit"
	ScholarshipTypeNeed  ScholarshipType = "need"
)

// Scholarship is a catalog record. The engine treats it as read-only;
// only the admin endpoints mutate the catalog.
type Scholarship struct {
	ID          string          `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Type        ScholarshipType `db:"type" json:"type"`

	// Merit thresholds, minimum required values. Null for need awards.
	MatricPercentage       *float64 `db:"matric_percentage" json:"matric_percentage,omitempty"`
	IntermediatePercentage *float64 `db:"intermediate_percentage" json:"intermediate_percentage,omitempty"`
	BachelorCGPA           *float64 `db:"bachelor_cgpa" json:"bachelor_cgpa,omitempty"`

	// Need ceiling, the maximum allowed gross family income. Null for
	// merit awards.
	FamilyIncomeCeiling *float64 `db:"family_income_ceiling" json:"family_income_ceiling,omitempty"`

	Popularity int        `db:"popularity" json:"popularity"`
	IssueDate  time.Time  `db:"issue_date" json:"issue_date"`
	CloseDate  time.Time  `db:"close_date" json:"close_date"`
	ImagePath  *string    `db:"image_path" json:"image_path,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt  *time.Time `db:"deleted_at" json:"-"`
}

// Criteria is the tagged variant dispatched by the eligibility
// evaluator. Exactly one of the concrete types is returned per
// scholarship; unknown types map to NoCriteria deliberately rather
// than falling through a type switch silently.
type Criteria interface {
	isCriteria()
}

// MeritCriteria holds minimum academic thresholds.
type MeritCriteria struct {
	MatricPercentage       float64
	IntermediatePercentage float64
	BachelorCGPA           float64
}

// NeedCriteria holds the family income ceiling.
type NeedCriteria struct {
	FamilyIncomeCeiling float64
}

// NoCriteria marks a scholarship type without eligibility checks.
type NoCriteria struct {
	Type ScholarshipType
}

func (MeritCriteria) isCriteria() {}
func (NeedCriteria) isCriteria()  {}
func (NoCriteria) isCriteria()    {}

// Criteria derives the typed criteria variant from the stored record.
// Missing threshold columns default to zero, which keeps legacy rows
// readable while still exercising every comparison.
func (s *Scholarship) Criteria() Criteria {
	switch s.Type {
	case ScholarshipTypeMerit:
		return MeritCriteria{
			MatricPercentage:       deref(s.MatricPercentage),
			IntermediatePercentage: deref(s.IntermediatePercentage),
			BachelorCGPA:           deref(s.BachelorCGPA),
		}
	case ScholarshipTypeNeed:
		return NeedCriteria{FamilyIncomeCeiling: deref(s.FamilyIncomeCeiling)}
	default:
		return NoCriteria{Type: s.Type}
	}
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// ScholarshipFilter captures list parameters for the catalog.
type ScholarshipFilter struct {
	Type      ScholarshipType
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
