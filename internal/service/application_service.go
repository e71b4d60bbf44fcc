package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/prolink-edu/scholarship-api/internal/dto"
	"github.com/prolink-edu/scholarship-api/internal/models"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
)

type applicationLedger interface {
	ListByUser(ctx context.Context, userID string) ([]models.Application, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	Append(ctx context.Context, app *models.Application) (bool, error)
	SetStatus(ctx context.Context, id string, status models.ApplicationStatus, reviewedAt time.Time) (bool, error)
	ListApplicants(ctx context.Context, scholarshipID string) ([]models.ApplicantDetail, error)
}

type scholarshipReader interface {
	FindByID(ctx context.Context, id string) (*models.Scholarship, error)
}

type applicantReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type profileReader interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
}

type popularityTracker interface {
	Bump(scholarshipID string)
}

// ApplicationService orchestrates the apply use case: profile gate,
// ledger invariants, type-specific eligibility, atomic append. It also
// exposes the admin review transition and the listing projection.
type ApplicationService struct {
	ledger       applicationLedger
	scholarships scholarshipReader
	users        applicantReader
	profiles     profileReader
	popularity   popularityTracker
	validator    *validator.Validate
	logger       *zap.Logger
	maxRetries   int
}

// NewApplicationService constructs ApplicationService. The popularity
// tracker may be nil.
func NewApplicationService(ledger applicationLedger, scholarships scholarshipReader, users applicantReader, profiles profileReader, popularity popularityTracker, validate *validator.Validate, logger *zap.Logger, maxRetries int) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &ApplicationService{
		ledger:       ledger,
		scholarships: scholarships,
		users:        users,
		profiles:     profiles,
		popularity:   popularity,
		validator:    validate,
		logger:       logger,
		maxRetries:   maxRetries,
	}
}

// Apply runs the full application pipeline for one user. On success it
// returns the updated ordered list of {status, scholarshipId} entries;
// every rejection is a structured domain error and leaves the ledger
// untouched.
func (s *ApplicationService) Apply(ctx context.Context, userID string, req dto.ApplyRequest) ([]models.AppliedScholarship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apply payload")
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if score := ProfileCompleteness(profile); score < 100 {
		s.logger.Info("apply blocked by incomplete profile",
			zap.String("user_id", userID), zap.Int("completeness", score))
		return nil, appErrors.Clone(appErrors.ErrProfileIncomplete, "profile incomplete")
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		entries, err := s.ledger.ListByUser(ctx, userID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
		}
		if blocked := classifyLedger(entries, req.ScholarshipID); blocked != nil {
			s.logger.Info("apply blocked by ledger invariant",
				zap.String("user_id", userID),
				zap.String("scholarship_id", req.ScholarshipID),
				zap.String("code", blocked.Code))
			return nil, blocked
		}

		scholarship, err := s.scholarships.FindByID(ctx, req.ScholarshipID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "scholarship not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholarship")
		}

		if result := EvaluateEligibility(scholarship, profile); !result.Eligible {
			s.logger.Info("apply blocked by eligibility criteria",
				zap.String("user_id", userID),
				zap.String("scholarship_id", scholarship.ID),
				zap.String("reason", result.Reason))
			return nil, appErrors.Clone(appErrors.ErrNotEligible, result.Reason)
		}

		appended, err := s.ledger.Append(ctx, &models.Application{
			UserID:            userID,
			ScholarshipID:     req.ScholarshipID,
			Status:            models.ApplicationStatusAwaiting,
			OtherRequirements: req.OtherRequirements,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to append application")
		}
		if appended {
			if s.popularity != nil {
				s.popularity.Bump(req.ScholarshipID)
			}
			updated, err := s.ledger.ListByUser(ctx, userID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
			}
			return project(updated), nil
		}
		// A concurrent apply won the conditional append. Reload on the
		// next iteration so the loss is reported as the precise guard
		// that now holds.
	}

	return nil, appErrors.Clone(appErrors.ErrApplyConflict, "")
}

// List returns the user's applications as ordered projections.
func (s *ApplicationService) List(ctx context.Context, userID string) ([]models.AppliedScholarship, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	entries, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load applications")
	}
	return project(entries), nil
}

// ListApplicants returns all applications for one scholarship with
// applicant identity, for the admin review screen.
func (s *ApplicationService) ListApplicants(ctx context.Context, scholarshipID string) ([]models.ApplicantDetail, error) {
	if _, err := s.scholarships.FindByID(ctx, scholarshipID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scholarship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholarship")
	}
	details, err := s.ledger.ListApplicants(ctx, scholarshipID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applicants")
	}
	return details, nil
}

// Review applies the admin transition awaiting -> approved|rejected.
// Setting the status an entry already has is a no-op; approving
// re-checks the single-approval rule inside the update itself.
func (s *ApplicationService) Review(ctx context.Context, applicationID string, status models.ApplicationStatus) (*models.Application, error) {
	if status != models.ApplicationStatusApproved && status != models.ApplicationStatusRejected {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be approved or rejected")
	}

	app, err := s.ledger.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	if app.Status == status {
		return app, nil
	}
	if app.Status != models.ApplicationStatusAwaiting {
		return nil, appErrors.Clone(appErrors.ErrConflict, "application already reviewed")
	}

	updated, err := s.ledger.SetStatus(ctx, applicationID, status, time.Now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application status")
	}
	if !updated {
		// Only the approval path carries a condition: a sibling entry
		// is already approved for this user.
		return nil, appErrors.Clone(appErrors.ErrAlreadyApproved, "user already has an approved scholarship")
	}

	app, err = s.ledger.FindByID(ctx, applicationID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload application")
	}
	return app, nil
}

// classifyLedger returns the guard error the current ledger state
// triggers for a prospective scholarship, or nil when the append may
// proceed. Duplicate beats approved, matching the guard order.
func classifyLedger(entries []models.Application, scholarshipID string) *appErrors.Error {
	for i := range entries {
		if entries[i].ScholarshipID == scholarshipID {
			return appErrors.Clone(appErrors.ErrAlreadyApplied, "")
		}
	}
	for i := range entries {
		if entries[i].Status == models.ApplicationStatusApproved {
			return appErrors.Clone(appErrors.ErrAlreadyApproved, "")
		}
	}
	return nil
}

func project(entries []models.Application) []models.AppliedScholarship {
	projections := make([]models.AppliedScholarship, 0, len(entries))
	for i := range entries {
		projections = append(projections, entries[i].Applied())
	}
	return projections
}
