package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/prolink-edu/scholarship-api/internal/models"
)

const scholarshipColumns = `id, name, description, type, matric_percentage, intermediate_percentage, bachelor_cgpa,
        family_income_ceiling, popularity, issue_date, close_date, image_path, created_at, updated_at, deleted_at`

// ScholarshipRepository provides catalog access. The application engine
// only reads from it; admin endpoints own the writes.
type ScholarshipRepository struct {
	db *sqlx.DB
}

// NewScholarshipRepository constructs the repository.
func NewScholarshipRepository(db *sqlx.DB) *ScholarshipRepository {
	return &ScholarshipRepository{db: db}
}

// FindByID returns a scholarship by identifier.
func (r *ScholarshipRepository) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	query := fmt.Sprintf(`SELECT %s FROM scholarships WHERE id = $1 AND deleted_at IS NULL`, scholarshipColumns)
	var scholarship models.Scholarship
	if err := r.db.GetContext(ctx, &scholarship, query, id); err != nil {
		return nil, err
	}
	return &scholarship, nil
}

// List returns catalog entries with total count.
func (r *ScholarshipRepository) List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int, error) {
	baseQuery := `FROM scholarships WHERE deleted_at IS NULL`
	var conditions []string
	var args []interface{}

	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"name":       true,
		"popularity": true,
		"issue_date": true,
		"close_date": true,
		"created_at": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		scholarshipColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var scholarships []models.Scholarship
	if err := r.db.SelectContext(ctx, &scholarships, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list scholarships: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count scholarships: %w", err)
	}

	return scholarships, total, nil
}

// Featured returns the top entries ranked by popularity.
func (r *ScholarshipRepository) Featured(ctx context.Context, limit int) ([]models.Scholarship, error) {
	query := fmt.Sprintf(`SELECT %s FROM scholarships WHERE deleted_at IS NULL ORDER BY popularity DESC LIMIT $1`, scholarshipColumns)
	var scholarships []models.Scholarship
	if err := r.db.SelectContext(ctx, &scholarships, query, limit); err != nil {
		return nil, fmt.Errorf("featured scholarships: %w", err)
	}
	return scholarships, nil
}

// Create inserts a catalog record.
func (r *ScholarshipRepository) Create(ctx context.Context, scholarship *models.Scholarship) error {
	if scholarship.ID == "" {
		scholarship.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if scholarship.CreatedAt.IsZero() {
		scholarship.CreatedAt = now
	}
	scholarship.UpdatedAt = now

	const query = `INSERT INTO scholarships (id, name, description, type, matric_percentage, intermediate_percentage, bachelor_cgpa,
        family_income_ceiling, popularity, issue_date, close_date, image_path, created_at, updated_at)
        VALUES (:id, :name, :description, :type, :matric_percentage, :intermediate_percentage, :bachelor_cgpa,
        :family_income_ceiling, :popularity, :issue_date, :close_date, :image_path, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, scholarship); err != nil {
		return fmt.Errorf("create scholarship: %w", err)
	}
	return nil
}

// Update rewrites mutable catalog fields.
func (r *ScholarshipRepository) Update(ctx context.Context, scholarship *models.Scholarship) error {
	scholarship.UpdatedAt = time.Now().UTC()
	const query = `UPDATE scholarships SET name = :name, description = :description,
        matric_percentage = :matric_percentage, intermediate_percentage = :intermediate_percentage,
        bachelor_cgpa = :bachelor_cgpa, family_income_ceiling = :family_income_ceiling,
        popularity = :popularity, issue_date = :issue_date, close_date = :close_date,
        image_path = :image_path, updated_at = :updated_at
        WHERE id = :id AND deleted_at IS NULL`
	if _, err := r.db.NamedExecContext(ctx, query, scholarship); err != nil {
		return fmt.Errorf("update scholarship: %w", err)
	}
	return nil
}

// IncrementPopularity bumps the popularity counter by one.
func (r *ScholarshipRepository) IncrementPopularity(ctx context.Context, id string) error {
	const query = `UPDATE scholarships SET popularity = popularity + 1 WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("increment popularity: %w", err)
	}
	return nil
}

// Delete soft deletes a catalog record; existing ledger entries keep
// their scholarship reference.
func (r *ScholarshipRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE scholarships SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("delete scholarship: %w", err)
	}
	return nil
}
