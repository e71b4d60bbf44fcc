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

type profileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	Upsert(ctx context.Context, profile *models.StudentProfile) error
}

type completenessWriter interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateCompleteness(ctx context.Context, id string, score int) error
}

// ProfileService reads and merges student profile sections and keeps
// the stored completeness score in sync with the profile contents.
type ProfileService struct {
	profiles  profileRepository
	users     completenessWriter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs ProfileService.
func NewProfileService(profiles profileRepository, users completenessWriter, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, users: users, validator: validate, logger: logger}
}

// Get returns the stored profile with its derived completeness score.
func (s *ProfileService) Get(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
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
	return &dto.ProfileResponse{Profile: profile, Completeness: ProfileCompleteness(profile)}, nil
}

// Update merges the supplied sections into the stored profile, writes
// the result and recomputes the completeness score. Fields the request
// does not carry keep their stored values.
func (s *ProfileService) Update(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	if req.Empty() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no profile sections supplied")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
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

	if err := mergeProfile(profile, req); err != nil {
		return nil, err
	}

	if err := s.profiles.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save profile")
	}

	score := ProfileCompleteness(profile)
	if err := s.users.UpdateCompleteness(ctx, userID, score); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update completeness")
	}
	s.logger.Info("profile updated",
		zap.String("user_id", userID), zap.Int("completeness", score))

	return &dto.ProfileResponse{Profile: profile, Completeness: score}, nil
}

func mergeProfile(profile *models.StudentProfile, req dto.UpdateProfileRequest) error {
	if section := req.About; section != nil {
		assignString(&profile.Summary, section.Summary)
		assignString(&profile.Objectives, section.Objectives)
	}
	if section := req.Biographical; section != nil {
		if section.DateOfBirth != nil {
			dob, err := time.Parse("2006-01-02", *section.DateOfBirth)
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "date_of_birth must be YYYY-MM-DD")
			}
			profile.DateOfBirth = &dob
		}
		assignString(&profile.Gender, section.Gender)
		assignString(&profile.Address, section.Address)
		assignString(&profile.City, section.City)
	}
	if section := req.Guardian; section != nil {
		assignString(&profile.GuardianName, section.Name)
		assignString(&profile.GuardianOccupation, section.Occupation)
		assignString(&profile.GuardianPhone, section.Phone)
	}
	if section := req.Nationality; section != nil {
		assignString(&profile.Nationality, section.Nationality)
		assignString(&profile.NationalID, section.NationalID)
		assignString(&profile.Domicile, section.Domicile)
	}
	if section := req.Family; section != nil {
		assignFloat(&profile.GrossIncome, section.GrossIncome)
		if section.Dependents != nil {
			value := *section.Dependents
			profile.Dependents = &value
		}
	}
	if section := req.Education; section != nil {
		assignFloat(&profile.MatricPercentage, section.MatricPercentage)
		assignFloat(&profile.IntermediatePercentage, section.IntermediatePercentage)
		assignFloat(&profile.BachelorCGPA, section.BachelorCGPA)
	}
	return nil
}

func assignString(dst **string, src *string) {
	if src != nil {
		value := *src
		*dst = &value
	}
}

func assignFloat(dst **float64, src *float64) {
	if src != nil {
		value := *src
		*dst = &value
	}
}
