package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prolink-edu/scholarship-api/internal/dto"
	"github.com/prolink-edu/scholarship-api/internal/models"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
)

// ledgerStub is an in-memory ledger mirroring the conditional append
// and conditional approve semantics of the SQL repository.
type ledgerStub struct {
	entries         []models.Application
	applicants      []models.ApplicantDetail
	listErr         error
	appendErr       error
	forceAppendFail bool
}

func (s *ledgerStub) ListByUser(_ context.Context, userID string) ([]models.Application, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []models.Application
	for _, entry := range s.entries {
		if entry.UserID == userID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (s *ledgerStub) FindByID(_ context.Context, id string) (*models.Application, error) {
	for i := range s.entries {
		if s.entries[i].ID == id {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *ledgerStub) Append(_ context.Context, app *models.Application) (bool, error) {
	if s.appendErr != nil {
		return false, s.appendErr
	}
	if s.forceAppendFail {
		return false, nil
	}
	for _, entry := range s.entries {
		if entry.UserID == app.UserID && entry.ScholarshipID == app.ScholarshipID {
			return false, nil
		}
		if entry.UserID == app.UserID && entry.Status == models.ApplicationStatusApproved {
			return false, nil
		}
	}
	if app.ID == "" {
		app.ID = "app-" + app.ScholarshipID
	}
	s.entries = append(s.entries, *app)
	return true, nil
}

func (s *ledgerStub) SetStatus(_ context.Context, id string, status models.ApplicationStatus, reviewedAt time.Time) (bool, error) {
	for i := range s.entries {
		if s.entries[i].ID != id {
			continue
		}
		if status == models.ApplicationStatusApproved {
			for j := range s.entries {
				if j != i && s.entries[j].UserID == s.entries[i].UserID && s.entries[j].Status == models.ApplicationStatusApproved {
					return false, nil
				}
			}
		}
		s.entries[i].Status = status
		s.entries[i].ReviewedAt = &reviewedAt
		return true, nil
	}
	return false, nil
}

func (s *ledgerStub) ListApplicants(_ context.Context, scholarshipID string) ([]models.ApplicantDetail, error) {
	return s.applicants, nil
}

type scholarshipStub struct {
	items map[string]*models.Scholarship
}

func (s *scholarshipStub) FindByID(_ context.Context, id string) (*models.Scholarship, error) {
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, sql.ErrNoRows
}

type userStub struct {
	users map[string]*models.User
}

func (s *userStub) FindByID(_ context.Context, id string) (*models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return nil, sql.ErrNoRows
}

type profileStub struct {
	profile *models.StudentProfile
	err     error
}

func (s *profileStub) FindByUserID(_ context.Context, userID string) (*models.StudentProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.profile != nil {
		return s.profile, nil
	}
	return &models.StudentProfile{UserID: userID}, nil
}

func newApplicationService(ledger *ledgerStub, scholarships map[string]*models.Scholarship, profile *models.StudentProfile) *ApplicationService {
	return NewApplicationService(
		ledger,
		&scholarshipStub{items: scholarships},
		&userStub{users: map[string]*models.User{"user-1": {ID: "user-1", Role: models.RoleStudent}}},
		&profileStub{profile: profile},
		nil,
		validator.New(),
		nil,
		3,
	)
}

func TestApplySucceedsForEligibleNeedApplicant(t *testing.T) {
	ledger := &ledgerStub{}
	profile := completeProfile()
	profile.GrossIncome = floatPtr(45000)
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, profile)

	applications, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-need"})
	require.NoError(t, err)
	require.Len(t, applications, 1)
	assert.Equal(t, "sch-need", applications[0].ScholarshipID)
	assert.Equal(t, models.ApplicationStatusAwaiting, applications[0].Status)
}

func TestApplyRejectsMeritShortfallWithFirstReason(t *testing.T) {
	ledger := &ledgerStub{}
	profile := completeProfile()
	profile.MatricPercentage = floatPtr(82)
	profile.IntermediatePercentage = floatPtr(70)
	profile.BachelorCGPA = floatPtr(3.5)
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-merit": meritScholarship(80, 75, 3.0)}, profile)

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-merit"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotEligible.Code, appErr.Code)
	assert.Equal(t, ReasonIntermediateInsufficient, appErr.Message)
	assert.Empty(t, ledger.entries)
}

func TestApplyRejectsDuplicateApplication(t *testing.T) {
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-need", Status: models.ApplicationStatusAwaiting},
	}}
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, completeProfile())

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-need"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyApplied))
	assert.Len(t, ledger.entries, 1)
}

func TestApplyRejectsWhenAnotherAwardApproved(t *testing.T) {
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-other", Status: models.ApplicationStatusApproved},
	}}
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, completeProfile())

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-need"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyApproved))
}

func TestApplyDuplicateGuardBeatsApprovedGuard(t *testing.T) {
	// The same scholarship is both re-applied to and the approved one;
	// the duplicate rejection wins.
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-need", Status: models.ApplicationStatusApproved},
	}}
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, completeProfile())

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-need"})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadyApplied))
}

func TestApplyGatesOnIncompleteProfile(t *testing.T) {
	ledger := &ledgerStub{}
	profile := completeProfile()
	profile.GuardianPhone = nil
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, profile)

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-need"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileIncomplete.Code, appErrors.FromError(err).Code)
	assert.Empty(t, ledger.entries)
}

func TestApplyUnknownScholarship(t *testing.T) {
	svc := newApplicationService(&ledgerStub{}, map[string]*models.Scholarship{}, completeProfile())

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApplyUnknownUser(t *testing.T) {
	svc := newApplicationService(&ledgerStub{}, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, completeProfile())

	_, err := svc.Apply(context.Background(), "user-missing", dto.ApplyRequest{ScholarshipID: "sch-need"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestApplyValidatesPayload(t *testing.T) {
	svc := newApplicationService(&ledgerStub{}, map[string]*models.Scholarship{}, completeProfile())

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestApplyLostRaceSurfacesRetryableConflict(t *testing.T) {
	// The conditional append keeps failing while the ledger read shows
	// no guard tripped; after the retries run out the caller gets a
	// retryable conflict instead of a silent success.
	ledger := &ledgerStub{forceAppendFail: true}
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, completeProfile())

	_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: "sch-need"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrApplyConflict.Code, appErrors.FromError(err).Code)
}

func TestApplyPreservesInsertionOrder(t *testing.T) {
	ledger := &ledgerStub{}
	scholarships := map[string]*models.Scholarship{
		"sch-a": needScholarship(50000),
		"sch-b": needScholarship(60000),
		"sch-c": needScholarship(70000),
	}
	svc := newApplicationService(ledger, scholarships, completeProfile())

	for _, id := range []string{"sch-b", "sch-a", "sch-c"} {
		_, err := svc.Apply(context.Background(), "user-1", dto.ApplyRequest{ScholarshipID: id})
		require.NoError(t, err)
	}

	applications, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, applications, 3)
	assert.Equal(t, "sch-b", applications[0].ScholarshipID)
	assert.Equal(t, "sch-a", applications[1].ScholarshipID)
	assert.Equal(t, "sch-c", applications[2].ScholarshipID)
}

func TestListProjectsOnlyStatusAndScholarship(t *testing.T) {
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-a", Status: models.ApplicationStatusRejected},
		{ID: "app-2", UserID: "user-1", ScholarshipID: "sch-b", Status: models.ApplicationStatusAwaiting},
	}}
	svc := newApplicationService(ledger, nil, completeProfile())

	applications, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, applications, 2)
	assert.Equal(t, models.AppliedScholarship{ScholarshipID: "sch-a", Status: models.ApplicationStatusRejected}, applications[0])
	assert.Equal(t, models.AppliedScholarship{ScholarshipID: "sch-b", Status: models.ApplicationStatusAwaiting}, applications[1])
}

func TestListHandlesLedgerError(t *testing.T) {
	ledger := &ledgerStub{listErr: errors.New("db down")}
	svc := newApplicationService(ledger, nil, completeProfile())

	_, err := svc.List(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestReviewApprovesAwaitingApplication(t *testing.T) {
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-a", Status: models.ApplicationStatusAwaiting},
	}}
	svc := newApplicationService(ledger, nil, completeProfile())

	app, err := svc.Review(context.Background(), "app-1", models.ApplicationStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, app.Status)
	assert.NotNil(t, app.ReviewedAt)
}

func TestReviewIsIdempotentForSameStatus(t *testing.T) {
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-a", Status: models.ApplicationStatusRejected},
	}}
	svc := newApplicationService(ledger, nil, completeProfile())

	app, err := svc.Review(context.Background(), "app-1", models.ApplicationStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)
}

func TestReviewBlocksSecondApprovalForSameUser(t *testing.T) {
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-a", Status: models.ApplicationStatusApproved},
		{ID: "app-2", UserID: "user-1", ScholarshipID: "sch-b", Status: models.ApplicationStatusAwaiting},
	}}
	svc := newApplicationService(ledger, nil, completeProfile())

	_, err := svc.Review(context.Background(), "app-2", models.ApplicationStatusApproved)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyApproved.Code, appErrors.FromError(err).Code)
	assert.Equal(t, models.ApplicationStatusAwaiting, ledger.entries[1].Status)
}

func TestReviewRejectsUnknownApplication(t *testing.T) {
	svc := newApplicationService(&ledgerStub{}, nil, completeProfile())

	_, err := svc.Review(context.Background(), "app-missing", models.ApplicationStatusApproved)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReviewRejectsAwaitingTarget(t *testing.T) {
	svc := newApplicationService(&ledgerStub{}, nil, completeProfile())

	_, err := svc.Review(context.Background(), "app-1", models.ApplicationStatusAwaiting)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewRejectsTransitionFromTerminalState(t *testing.T) {
	ledger := &ledgerStub{entries: []models.Application{
		{ID: "app-1", UserID: "user-1", ScholarshipID: "sch-a", Status: models.ApplicationStatusRejected},
	}}
	svc := newApplicationService(ledger, nil, completeProfile())

	_, err := svc.Review(context.Background(), "app-1", models.ApplicationStatusApproved)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestListApplicantsUnknownScholarship(t *testing.T) {
	svc := newApplicationService(&ledgerStub{}, map[string]*models.Scholarship{}, completeProfile())

	_, err := svc.ListApplicants(context.Background(), "sch-missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListApplicantsReturnsLedgerDetails(t *testing.T) {
	ledger := &ledgerStub{applicants: []models.ApplicantDetail{
		{Application: models.Application{ID: "app-1", ScholarshipID: "sch-need"}, Email: "a@example.com"},
	}}
	svc := newApplicationService(ledger, map[string]*models.Scholarship{"sch-need": needScholarship(50000)}, completeProfile())

	details, err := svc.ListApplicants(context.Background(), "sch-need")
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, "a@example.com", details[0].Email)
}
