package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/prolink-edu/scholarship-api/internal/repository"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
	"github.com/prolink-edu/scholarship-api/pkg/export"
)

// Report formats supported by the admin scholarship report endpoint.
const (
	ReportFormatCSV = "csv"
	ReportFormatPDF = "pdf"
)

var reportHeaders = []string{"Scholarship", "Type", "Total", "Awaiting", "Approved", "Rejected"}

type tallyReader interface {
	StatusTallies(ctx context.Context) ([]repository.StatusTally, error)
}

// ReportFile is a rendered report ready to stream to the client.
type ReportFile struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ReportService renders per-scholarship application tallies as CSV or
// PDF downloads for administrators.
type ReportService struct {
	tallies tallyReader
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
	metrics *MetricsService
}

// NewReportService constructs ReportService. Metrics may be nil.
func NewReportService(tallies tallyReader, logger *zap.Logger, metrics *MetricsService) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		tallies: tallies,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
		metrics: metrics,
	}
}

// ScholarshipReport builds the application tally report in the given
// format.
func (s *ReportService) ScholarshipReport(ctx context.Context, format string) (*ReportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ReportFormatCSV
	}
	if format != ReportFormatCSV && format != ReportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	start := time.Now()
	tallies, err := s.tallies.StatusTallies(ctx)
	s.metrics.ObserveDBQuery("application_status_tallies", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate applications")
	}

	dataset := export.Dataset{Headers: reportHeaders, Rows: make([]map[string]string, 0, len(tallies))}
	for _, tally := range tallies {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Scholarship": tally.ScholarshipName,
			"Type":        tally.Type,
			"Total":       fmt.Sprintf("%d", tally.Total),
			"Awaiting":    fmt.Sprintf("%d", tally.Awaiting),
			"Approved":    fmt.Sprintf("%d", tally.Approved),
			"Rejected":    fmt.Sprintf("%d", tally.Rejected),
		})
	}

	var file ReportFile
	switch format {
	case ReportFormatPDF:
		content, err := s.pdf.Render(dataset, "Scholarship Applications Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		file = ReportFile{FileName: "scholarship-report.pdf", ContentType: "application/pdf", Content: content}
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		file = ReportFile{FileName: "scholarship-report.csv", ContentType: "text/csv", Content: content}
	}

	s.logger.Info("scholarship report rendered",
		zap.String("format", format), zap.Int("rows", len(dataset.Rows)))
	return &file, nil
}
