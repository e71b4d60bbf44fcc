package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolink-edu/scholarship-api/internal/repository"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
)

type tallyStub struct {
	tallies []repository.StatusTally
	err     error
}

func (s *tallyStub) StatusTallies(_ context.Context) ([]repository.StatusTally, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.tallies, nil
}

func TestScholarshipReportCSV(t *testing.T) {
	svc := NewReportService(&tallyStub{tallies: []repository.StatusTally{
		{ScholarshipID: "sch-1", ScholarshipName: "Academic Excellence", Type: "merit", Total: 5, Awaiting: 2, Approved: 1, Rejected: 2},
	}}, nil, nil)

	file, err := svc.ScholarshipReport(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "scholarship-report.csv", file.FileName)
	assert.Equal(t, "text/csv", file.ContentType)

	content := string(file.Content)
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Scholarship,Type,Total,Awaiting,Approved,Rejected", lines[0])
	assert.Equal(t, "Academic Excellence,merit,5,2,1,2", lines[1])
}

func TestScholarshipReportDefaultsToCSV(t *testing.T) {
	svc := NewReportService(&tallyStub{}, nil, nil)

	file, err := svc.ScholarshipReport(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "scholarship-report.csv", file.FileName)
}

func TestScholarshipReportPDF(t *testing.T) {
	svc := NewReportService(&tallyStub{tallies: []repository.StatusTally{
		{ScholarshipName: "Hardship Fund", Type: "need", Total: 1, Awaiting: 1},
	}}, nil, nil)

	file, err := svc.ScholarshipReport(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestScholarshipReportRejectsUnknownFormat(t *testing.T) {
	svc := NewReportService(&tallyStub{}, nil, nil)

	_, err := svc.ScholarshipReport(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestScholarshipReportHandlesRepoError(t *testing.T) {
	svc := NewReportService(&tallyStub{err: errors.New("db down")}, nil, nil)

	_, err := svc.ScholarshipReport(context.Background(), "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}
