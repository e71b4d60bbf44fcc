package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prolink-edu/scholarship-api/pkg/jobs"
)

type popularityWriter interface {
	IncrementPopularity(ctx context.Context, id string) error
}

// PopularityService bumps scholarship popularity off the request path.
// Each accepted application enqueues one increment; the featured
// ranking picks the change up on the next cache refresh.
type PopularityService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewPopularityService constructs the service and its worker queue.
func NewPopularityService(repo popularityWriter, logger *zap.Logger, workers int) *PopularityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PopularityService{logger: logger}
	s.queue = jobs.NewQueue("popularity", func(ctx context.Context, task jobs.Task) error {
		id, ok := task.Payload.(string)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", task.Payload)
		}
		return repo.IncrementPopularity(ctx, id)
	}, jobs.QueueConfig{Workers: workers, Logger: logger})
	return s
}

// Start launches the workers.
func (s *PopularityService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *PopularityService) Stop() {
	s.queue.Stop()
}

// Bump schedules a popularity increment. Failures are logged and
// dropped; popularity is advisory and never blocks an application.
func (s *PopularityService) Bump(scholarshipID string) {
	err := s.queue.Enqueue(jobs.Task{
		ID:      uuid.NewString(),
		Kind:    "popularity_bump",
		Payload: scholarshipID,
	})
	if err != nil {
		s.logger.Warn("popularity bump dropped",
			zap.String("scholarship_id", scholarshipID), zap.Error(err))
	}
}
