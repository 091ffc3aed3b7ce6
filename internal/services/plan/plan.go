// Package services содержит бизнес-логику каталога тарифных планов.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ivankoval/subscription-dashboard/internal/lib/sl"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// PlanRepository определяет методы для работы с каталогом планов в хранилище.
type PlanRepository interface {
	// ListActivePlans возвращает активные планы, отсортированные по цене по возрастанию.
	ListActivePlans(ctx context.Context) ([]*models.Plan, error)
	// FindPlanByID возвращает план по ID или apperrors.ErrNotFound.
	FindPlanByID(ctx context.Context, id int) (*models.Plan, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

const (
	activePlansCacheKey = "plans:active"
	plansCacheTTL       = 5 * time.Minute
)

// PlanService отдает каталог планов, кешируя список активных планов:
// каталог меняется только сидированием, короткого TTL достаточно.
type PlanService struct {
	repo  PlanRepository
	cache Cache
	log   *slog.Logger
}

// NewPlanService создает новый экземпляр PlanService.
func NewPlanService(repo PlanRepository, cache Cache, log *slog.Logger) *PlanService {
	return &PlanService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// List возвращает активные планы по возрастанию цены, используя кеш или репозиторий.
func (s *PlanService) List(ctx context.Context) ([]*models.Plan, error) {
	const op = "services.plan.List"

	var cached []*models.Plan
	found, err := s.cache.Get(activePlansCacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read plans from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	plans, err := s.repo.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(activePlansCacheKey, plans, plansCacheTTL); err != nil {
		s.log.Warn("failed to cache plans", sl.Err(err))
	}
	return plans, nil
}

// Get возвращает план по его ID.
func (s *PlanService) Get(ctx context.Context, id int) (*models.Plan, error) {
	const op = "services.plan.Get"

	plan, err := s.repo.FindPlanByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}
