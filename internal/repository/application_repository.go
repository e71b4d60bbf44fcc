package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prolink-edu/scholarship-api/internal/models"
)

// ApplicationRepository persists the per-user application ledger.
// Invariants are anchored in the schema: UNIQUE(user_id, scholarship_id)
// forbids duplicate applications and the conditional append below keeps
// the at-most-one-approved rule race free without row locks.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// ListByUser returns the user's applications in insertion order.
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]models.Application, error) {
	const query = `SELECT id, user_id, scholarship_id, status, other_requirements, position, created_at, reviewed_at
        FROM applications WHERE user_id = $1 ORDER BY position ASC`
	var apps []models.Application
	if err := r.db.SelectContext(ctx, &apps, query, userID); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// FindByID returns a single ledger entry.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	const query = `SELECT id, user_id, scholarship_id, status, other_requirements, position, created_at, reviewed_at
        FROM applications WHERE id = $1`
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		return nil, err
	}
	return &app, nil
}

// Append inserts an awaiting entry iff the user has no entry for the
// same scholarship and no approved entry. The whole read-check-append
// runs inside a single statement, so two concurrent applies for the
// same user cannot both pass on a stale read. Returns false when a
// guard blocked the insert.
func (r *ApplicationRepository) Append(ctx context.Context, app *models.Application) (bool, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	if app.Status == "" {
		app.Status = models.ApplicationStatusAwaiting
	}
	const query = `INSERT INTO applications (id, user_id, scholarship_id, status, other_requirements, position, created_at)
        SELECT $1, $2, $3, $4, $5,
               COALESCE((SELECT MAX(position) + 1 FROM applications WHERE user_id = $2), 0),
               $6
        WHERE NOT EXISTS (SELECT 1 FROM applications WHERE user_id = $2 AND scholarship_id = $3)
          AND NOT EXISTS (SELECT 1 FROM applications WHERE user_id = $2 AND status = $7)`
	result, err := r.db.ExecContext(ctx, query,
		app.ID, app.UserID, app.ScholarshipID, app.Status, app.OtherRequirements,
		app.CreatedAt, models.ApplicationStatusApproved)
	if err != nil {
		return false, fmt.Errorf("append application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("append application rows: %w", err)
	}
	return rows > 0, nil
}

// SetStatus updates an entry's status. Approvals are conditional: the
// update only lands when no sibling entry for the same user is already
// approved, re-checking the single-approval rule at the moment of the
// transition. Returns false when the condition blocked the update.
func (r *ApplicationRepository) SetStatus(ctx context.Context, id string, status models.ApplicationStatus, reviewedAt time.Time) (bool, error) {
	var query string
	args := []interface{}{id, status, reviewedAt}
	if status == models.ApplicationStatusApproved {
		query = `UPDATE applications SET status = $2, reviewed_at = $3
            WHERE id = $1
              AND NOT EXISTS (
                  SELECT 1 FROM applications a2
                  WHERE a2.user_id = applications.user_id AND a2.status = $4 AND a2.id <> $1
              )`
		args = append(args, models.ApplicationStatusApproved)
	} else {
		query = `UPDATE applications SET status = $2, reviewed_at = $3 WHERE id = $1`
	}
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("set application status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set application status rows: %w", err)
	}
	return rows > 0, nil
}

// HasApproved reports whether the user holds an approved entry.
func (r *ApplicationRepository) HasApproved(ctx context.Context, userID string) (bool, error) {
	const query = `SELECT 1 FROM applications WHERE user_id = $1 AND status = $2 LIMIT 1`
	var one int
	if err := r.db.GetContext(ctx, &one, query, userID, models.ApplicationStatusApproved); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check approved application: %w", err)
	}
	return true, nil
}

// ListApplicants returns applications for a scholarship joined with
// applicant identity, for the admin review listing.
func (r *ApplicationRepository) ListApplicants(ctx context.Context, scholarshipID string) ([]models.ApplicantDetail, error) {
	const query = `SELECT a.id, a.user_id, a.scholarship_id, a.status, a.other_requirements, a.position, a.created_at, a.reviewed_at,
        u.email, u.first_name, u.last_name
        FROM applications a
        JOIN users u ON u.id = a.user_id
        WHERE a.scholarship_id = $1
        ORDER BY a.created_at ASC`
	var details []models.ApplicantDetail
	if err := r.db.SelectContext(ctx, &details, query, scholarshipID); err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	return details, nil
}

// StatusTally aggregates application counts per status for one
// scholarship, feeding the admin report export.
type StatusTally struct {
	ScholarshipID   string `db:"scholarship_id"`
	ScholarshipName string `db:"scholarship_name"`
	Type            string `db:"type"`
	Total           int    `db:"total"`
	Awaiting        int    `db:"awaiting"`
	Approved        int    `db:"approved"`
	Rejected        int    `db:"rejected"`
}

// StatusTallies returns per-scholarship application tallies.
func (r *ApplicationRepository) StatusTallies(ctx context.Context) ([]StatusTally, error) {
	const query = `SELECT s.id AS scholarship_id, s.name AS scholarship_name, s.type,
        COUNT(a.id) AS total,
        COUNT(a.id) FILTER (WHERE a.status = 'awaiting') AS awaiting,
        COUNT(a.id) FILTER (WHERE a.status = 'approved') AS approved,
        COUNT(a.id) FILTER (WHERE a.status = 'rejected') AS rejected
        FROM scholarships s
        LEFT JOIN applications a ON a.scholarship_id = s.id
        WHERE s.deleted_at IS NULL
        GROUP BY s.id, s.name, s.type
        ORDER BY s.name`
	var tallies []StatusTally
	if err := r.db.SelectContext(ctx, &tallies, query); err != nil {
		return nil, fmt.Errorf("application tallies: %w", err)
	}
	return tallies, nil
}
