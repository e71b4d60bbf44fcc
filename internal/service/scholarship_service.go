package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/prolink-edu/scholarship-api/internal/dto"
	"github.com/prolink-edu/scholarship-api/internal/models"
	"github.com/prolink-edu/scholarship-api/pkg/config"
	appErrors "github.com/prolink-edu/scholarship-api/pkg/errors"
)

const featuredCacheKeyFormat = "scholarships:featured:%d"

type scholarshipRepository interface {
	FindByID(ctx context.Context, id string) (*models.Scholarship, error)
	List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, int, error)
	Featured(ctx context.Context, limit int) ([]models.Scholarship, error)
	Create(ctx context.Context, scholarship *models.Scholarship) error
	Update(ctx context.Context, scholarship *models.Scholarship) error
	Delete(ctx context.Context, id string) error
}

// ScholarshipService serves the catalog read side and the admin CRUD
// operations. The featured list is cached in Redis per requested size.
type ScholarshipService struct {
	repo      scholarshipRepository
	cache     *redis.Client
	cfg       config.CatalogConfig
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewScholarshipService constructs ScholarshipService. The cache client
// and metrics may be nil; both degrade to direct repository reads.
func NewScholarshipService(repo scholarshipRepository, cache *redis.Client, cfg config.CatalogConfig, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ScholarshipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.FeaturedMaxQty < 1 {
		cfg.FeaturedMaxQty = 50
	}
	if cfg.FeaturedCacheTTL <= 0 {
		cfg.FeaturedCacheTTL = 10 * time.Minute
	}
	return &ScholarshipService{repo: repo, cache: cache, cfg: cfg, validator: validate, logger: logger, metrics: metrics}
}

// Get returns one catalog entry.
func (s *ScholarshipService) Get(ctx context.Context, id string) (*models.Scholarship, error) {
	scholarship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scholarship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholarship")
	}
	return scholarship, nil
}

// List returns catalog entries with pagination metadata.
func (s *ScholarshipService) List(ctx context.Context, filter models.ScholarshipFilter) ([]models.Scholarship, *models.Pagination, error) {
	scholarships, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scholarships")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return scholarships, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Featured returns the qty most popular scholarships, cached per qty.
func (s *ScholarshipService) Featured(ctx context.Context, qty int) ([]models.Scholarship, error) {
	if qty < 1 {
		qty = 10
	}
	if qty > s.cfg.FeaturedMaxQty {
		qty = s.cfg.FeaturedMaxQty
	}

	key := fmt.Sprintf(featuredCacheKeyFormat, qty)
	if s.cache != nil {
		payload, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var cached []models.Scholarship
			if err := json.Unmarshal(payload, &cached); err == nil {
				if s.metrics != nil {
					s.metrics.RecordCacheHit("featured_scholarships")
				}
				return cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("featured cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheMiss("featured_scholarships")
		}
	}

	scholarships, err := s.repo.Featured(ctx, qty)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load featured scholarships")
	}

	if s.cache != nil {
		if payload, err := json.Marshal(scholarships); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cfg.FeaturedCacheTTL).Err(); err != nil {
				s.logger.Warn("featured cache write failed", zap.Error(err))
			}
		}
	}
	return scholarships, nil
}

// CreateMerit creates a merit scholarship.
func (s *ScholarshipService) CreateMerit(ctx context.Context, req dto.CreateMeritScholarshipRequest) (*models.Scholarship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scholarship payload")
	}
	issue, closeDate, err := parseDateRange(req.IssueDate, req.CloseDate)
	if err != nil {
		return nil, err
	}

	scholarship := &models.Scholarship{
		Name:                   req.Name,
		Description:            req.Description,
		Type:                   models.ScholarshipTypeMerit,
		MatricPercentage:       &req.MatricPercentage,
		IntermediatePercentage: &req.IntermediatePercentage,
		BachelorCGPA:           &req.BachelorCGPA,
		Popularity:             req.Popularity,
		IssueDate:              issue,
		CloseDate:              closeDate,
	}
	if err := s.repo.Create(ctx, scholarship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create scholarship")
	}
	s.invalidateFeatured(ctx)
	s.logger.Info("scholarship created",
		zap.String("scholarship_id", scholarship.ID),
		zap.String("type", string(scholarship.Type)))
	return scholarship, nil
}

// CreateNeed creates a need scholarship.
func (s *ScholarshipService) CreateNeed(ctx context.Context, req dto.CreateNeedScholarshipRequest) (*models.Scholarship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scholarship payload")
	}
	issue, closeDate, err := parseDateRange(req.IssueDate, req.CloseDate)
	if err != nil {
		return nil, err
	}

	scholarship := &models.Scholarship{
		Name:                req.Name,
		Description:         req.Description,
		Type:                models.ScholarshipTypeNeed,
		FamilyIncomeCeiling: &req.FamilyIncomeCeiling,
		Popularity:          req.Popularity,
		IssueDate:           issue,
		CloseDate:           closeDate,
	}
	if err := s.repo.Create(ctx, scholarship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create scholarship")
	}
	s.invalidateFeatured(ctx)
	s.logger.Info("scholarship created",
		zap.String("scholarship_id", scholarship.ID),
		zap.String("type", string(scholarship.Type)))
	return scholarship, nil
}

// UpdateMerit rewrites a merit scholarship's fields.
func (s *ScholarshipService) UpdateMerit(ctx context.Context, id string, req dto.CreateMeritScholarshipRequest) (*models.Scholarship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scholarship payload")
	}
	scholarship, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scholarship.Type != models.ScholarshipTypeMerit {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scholarship is not merit based")
	}
	issue, closeDate, err := parseDateRange(req.IssueDate, req.CloseDate)
	if err != nil {
		return nil, err
	}

	scholarship.Name = req.Name
	scholarship.Description = req.Description
	scholarship.MatricPercentage = &req.MatricPercentage
	scholarship.IntermediatePercentage = &req.IntermediatePercentage
	scholarship.BachelorCGPA = &req.BachelorCGPA
	scholarship.Popularity = req.Popularity
	scholarship.IssueDate = issue
	scholarship.CloseDate = closeDate

	if err := s.repo.Update(ctx, scholarship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update scholarship")
	}
	s.invalidateFeatured(ctx)
	return scholarship, nil
}

// UpdateNeed rewrites a need scholarship's fields.
func (s *ScholarshipService) UpdateNeed(ctx context.Context, id string, req dto.CreateNeedScholarshipRequest) (*models.Scholarship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scholarship payload")
	}
	scholarship, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scholarship.Type != models.ScholarshipTypeNeed {
		return nil, appErrors.Clone(appErrors.ErrValidation, "scholarship is not need based")
	}
	issue, closeDate, err := parseDateRange(req.IssueDate, req.CloseDate)
	if err != nil {
		return nil, err
	}

	scholarship.Name = req.Name
	scholarship.Description = req.Description
	scholarship.FamilyIncomeCeiling = &req.FamilyIncomeCeiling
	scholarship.Popularity = req.Popularity
	scholarship.IssueDate = issue
	scholarship.CloseDate = closeDate

	if err := s.repo.Update(ctx, scholarship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update scholarship")
	}
	s.invalidateFeatured(ctx)
	return scholarship, nil
}

// Delete soft deletes a catalog record.
func (s *ScholarshipService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete scholarship")
	}
	s.invalidateFeatured(ctx)
	return nil
}

// invalidateFeatured drops every cached featured list after a catalog
// mutation. Key sizes are bounded by FeaturedMaxQty.
func (s *ScholarshipService) invalidateFeatured(ctx context.Context) {
	if s.cache == nil {
		return
	}
	keys := make([]string, 0, s.cfg.FeaturedMaxQty)
	for qty := 1; qty <= s.cfg.FeaturedMaxQty; qty++ {
		keys = append(keys, fmt.Sprintf(featuredCacheKeyFormat, qty))
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		s.logger.Warn("featured cache invalidation failed", zap.Error(err))
	}
}

func parseDateRange(issueRaw, closeRaw string) (time.Time, time.Time, error) {
	issue, err := time.Parse("2006-01-02", issueRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "issue_date must be YYYY-MM-DD")
	}
	closeDate, err := time.Parse("2006-01-02", closeRaw)
	if err != nil {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "close_date must be YYYY-MM-DD")
	}
	if closeDate.Before(issue) {
		return time.Time{}, time.Time{}, appErrors.Clone(appErrors.ErrValidation, "close_date must not precede issue_date")
	}
	return issue, closeDate, nil
}
