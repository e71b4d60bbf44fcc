package models

import "time"

// ApplicationStatus is the lifecycle state of a scholarship application.
// Applications enter as awaiting and only the admin review transition
// moves them to approved or rejected.
type ApplicationStatus string

const (
	ApplicationStatusAwaiting ApplicationStatus = "awaiting"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Valid reports whether the status is a known lifecycle state.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusAwaiting, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is one entry in a user's application ledger. Position
// preserves insertion order so listings replay the exact apply order.
type Application struct {
	ID                string            `db:"id" json:"id"`
	UserID            string            `db:"user_id" json:"user_id"`
	ScholarshipID     string            `db:"scholarship_id" json:"scholarship_id"`
	Status            ApplicationStatus `db:"status" json:"status"`
	OtherRequirements string            `db:"other_requirements" json:"other_requirements,omitempty"`
	Position          int               `db:"position" json:"-"`
	CreatedAt         time.Time         `db:"created_at" json:"created_at"`
	ReviewedAt        *time.Time        `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// AppliedScholarship is the projection exposed to callers: only the
// status and the scholarship reference, never the raw catalog record.
type AppliedScholarship struct {
	ScholarshipID string            `json:"scholarshipId"`
	Status        ApplicationStatus `json:"status"`
}

// Applied converts a ledger entry into its caller-facing projection.
func (a *Application) Applied() AppliedScholarship {
	return AppliedScholarship{ScholarshipID: a.ScholarshipID, Status: a.Status}
}

// ApplicantDetail joins an application with applicant context for the
// admin review listing.
type ApplicantDetail struct {
	Application
	Email     string `db:"email" json:"email"`
	FirstName string `db:"first_name" json:"first_name"`
	LastName  string `db:"last_name" json:"last_name"`
}
