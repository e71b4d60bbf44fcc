package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/prolink-edu/scholarship-api/internal/models"
)

// ProfileRepository persists student profiles as one row per user.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByUserID returns the stored profile. A user without profile data
// yet gets an empty profile rather than an error, so the completeness
// score starts from zero.
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error) {
	const query = `SELECT user_id, summary, objectives, date_of_birth, gender, address, city,
        guardian_name, guardian_occupation, guardian_phone,
        nationality, national_id, domicile,
        gross_income, dependents,
        matric_percentage, intermediate_percentage, bachelor_cgpa, updated_at
        FROM student_profiles WHERE user_id = $1`
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return &models.StudentProfile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return &profile, nil
}

// Upsert writes the full merged profile row.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.StudentProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO student_profiles (user_id, summary, objectives, date_of_birth, gender, address, city,
        guardian_name, guardian_occupation, guardian_phone,
        nationality, national_id, domicile,
        gross_income, dependents,
        matric_percentage, intermediate_percentage, bachelor_cgpa, updated_at)
        VALUES (:user_id, :summary, :objectives, :date_of_birth, :gender, :address, :city,
        :guardian_name, :guardian_occupation, :guardian_phone,
        :nationality, :national_id, :domicile,
        :gross_income, :dependents,
        :matric_percentage, :intermediate_percentage, :bachelor_cgpa, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
        summary = EXCLUDED.summary, objectives = EXCLUDED.objectives,
        date_of_birth = EXCLUDED.date_of_birth, gender = EXCLUDED.gender,
        address = EXCLUDED.address, city = EXCLUDED.city,
        guardian_name = EXCLUDED.guardian_name, guardian_occupation = EXCLUDED.guardian_occupation,
        guardian_phone = EXCLUDED.guardian_phone,
        nationality = EXCLUDED.nationality, national_id = EXCLUDED.national_id,
        domicile = EXCLUDED.domicile,
        gross_income = EXCLUDED.gross_income, dependents = EXCLUDED.dependents,
        matric_percentage = EXCLUDED.matric_percentage,
        intermediate_percentage = EXCLUDED.intermediate_percentage,
        bachelor_cgpa = EXCLUDED.bachelor_cgpa,
        updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
