package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolink-edu/scholarship-api/internal/models"
)

func scholarshipRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "type", "matric_percentage", "intermediate_percentage",
		"bachelor_cgpa", "family_income_ceiling", "popularity", "issue_date", "close_date", "image_path",
		"created_at", "updated_at", "deleted_at"})
}

func TestScholarshipFindByIDSkipsDeleted(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1 AND deleted_at IS NULL")).
		WithArgs("sch-gone").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "sch-gone")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipFindByIDReturnsCriteria(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	now := time.Now()
	rows := scholarshipRows().
		AddRow("sch-1", "Academic Excellence", "", "merit", 80.0, 75.0, 3.0, nil, 10, now, now, nil, now, now, nil)
	mock.ExpectQuery("SELECT .+ FROM scholarships WHERE id").
		WithArgs("sch-1").
		WillReturnRows(rows)

	scholarship, err := repo.FindByID(context.Background(), "sch-1")
	require.NoError(t, err)

	criteria, ok := scholarship.Criteria().(models.MeritCriteria)
	require.True(t, ok)
	assert.Equal(t, 80.0, criteria.MatricPercentage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipFeaturedOrdersByPopularity(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	now := time.Now()
	rows := scholarshipRows().
		AddRow("sch-2", "B", "", "need", nil, nil, nil, 50000.0, 90, now, now, nil, now, now, nil).
		AddRow("sch-1", "A", "", "merit", 80.0, 75.0, 3.0, nil, 10, now, now, nil, now, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY popularity DESC LIMIT $1")).
		WithArgs(2).
		WillReturnRows(rows)

	scholarships, err := repo.Featured(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, scholarships, 2)
	assert.Equal(t, "sch-2", scholarships[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipListAppliesFilterAndPagination(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	now := time.Now()
	rows := scholarshipRows().
		AddRow("sch-1", "Hardship Fund", "", "need", nil, nil, nil, 50000.0, 5, now, now, nil, now, now, nil)
	mock.ExpectQuery(regexp.QuoteMeta("type = $1")).
		WithArgs("need").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("need").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	scholarships, total, err := repo.List(context.Background(), models.ScholarshipFilter{Type: models.ScholarshipTypeNeed})
	require.NoError(t, err)
	assert.Len(t, scholarships, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipListIgnoresUnknownSortColumn(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC")).
		WillReturnRows(scholarshipRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.ScholarshipFilter{SortBy: "popularity; DROP TABLE scholarships"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectExec("INSERT INTO scholarships").WillReturnResult(sqlmock.NewResult(0, 1))

	scholarship := &models.Scholarship{Name: "Hardship Fund", Type: models.ScholarshipTypeNeed}
	err := repo.Create(context.Background(), scholarship)
	require.NoError(t, err)
	assert.NotEmpty(t, scholarship.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScholarshipDeleteIsSoft(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewScholarshipRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE scholarships SET deleted_at = $2")).
		WithArgs("sch-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "sch-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
