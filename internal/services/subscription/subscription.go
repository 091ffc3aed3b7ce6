// Package services содержит бизнес-логику жизненного цикла подписок:
// оформление, ленивое истечение при чтении, отмену и админскую статистику.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// FindActiveByUser возвращает активную подписку пользователя или apperrors.ErrNotFound.
	FindActiveByUser(ctx context.Context, userUID string) (*models.Subscription, error)
	// UpdateSubscriptionStatus обновляет статус по ID и возвращает число изменённых строк.
	UpdateSubscriptionStatus(ctx context.Context, id int, status string) (int, error)
	// ListAllSubscriptions возвращает все подписки с данными пользователя и плана, новые первыми.
	ListAllSubscriptions(ctx context.Context) ([]*models.SubscriptionInfo, error)
	// CountSubscriptionStatistics возвращает агрегированные счетчики.
	CountSubscriptionStatistics(ctx context.Context) (*models.Statistics, error)
}

// PlanRepository определяет доступ к каталогу планов, нужный при оформлении.
type PlanRepository interface {
	FindPlanByID(ctx context.Context, id int) (*models.Plan, error)
}

// SubscriptionService реализует машину состояний подписки.
// Истечение вычисляется лениво при чтении, фонового процесса нет.
type SubscriptionService struct {
	subs  SubscriptionRepository
	plans PlanRepository
	log   *slog.Logger
	now   func() time.Time
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(subs SubscriptionRepository, plans PlanRepository, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		subs:  subs,
		plans: plans,
		log:   log,
		now:   time.Now,
	}
}

// Subscribe оформляет подписку пользователя на план.
// Существующая активная подписка переводится в cancelled перед вставкой новой:
// семантика замены, а не накопления. Два шага не атомарны; при конкурентных
// запросах одного пользователя возможна гонка — известное ограничение.
func (s *SubscriptionService) Subscribe(ctx context.Context, userUID string, planID int) (*models.SubscriptionInfo, error) {
	const op = "services.subscription.Subscribe"

	plan, err := s.plans.FindPlanByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	existing, err := s.subs.FindActiveByUser(ctx, userUID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		if _, err := s.subs.UpdateSubscriptionStatus(ctx, existing.ID, models.StatusCancelled); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("cancelled previous active subscription",
			slog.Int("id", existing.ID), slog.String("user_uid", userUID))
	}

	now := s.now().UTC()
	sub := models.Subscription{
		UserUID:   userUID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		Status:    models.StatusActive,
	}
	id, err := s.subs.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.ID = id
	s.log.Info("created new subscription", slog.Int("id", id), slog.String("user_uid", userUID))

	info := &models.SubscriptionInfo{
		Subscription:     sub,
		PlanName:         plan.Name,
		PlanPrice:        plan.Price,
		PlanDurationDays: plan.DurationDays,
		DaysRemaining:    sub.DaysRemaining(now),
	}
	return info, nil
}

// GetActive возвращает активную подписку пользователя или nil, если её нет.
// Если срок действия прошел, статус переводится в expired, изменение
// сохраняется и возвращается nil: истекшая подписка наружу не отдается.
// Повторный вызов после перехода ничего не мутирует.
func (s *SubscriptionService) GetActive(ctx context.Context, userUID string) (*models.SubscriptionInfo, error) {
	const op = "services.subscription.GetActive"

	sub, err := s.subs.FindActiveByUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	if models.DeriveStatus(sub, now) == models.StatusExpired {
		if _, err := s.subs.UpdateSubscriptionStatus(ctx, sub.ID, models.StatusExpired); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("subscription lazily expired", slog.Int("id", sub.ID))
		return nil, nil
	}

	plan, err := s.plans.FindPlanByID(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	info := &models.SubscriptionInfo{
		Subscription:     *sub,
		PlanName:         plan.Name,
		PlanPrice:        plan.Price,
		PlanDurationDays: plan.DurationDays,
		DaysRemaining:    sub.DaysRemaining(now),
	}
	return info, nil
}

// Cancel отменяет активную подписку пользователя.
// Если активной подписки нет, возвращает apperrors.ErrNotFound.
func (s *SubscriptionService) Cancel(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "services.subscription.Cancel"

	sub, err := s.subs.FindActiveByUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.subs.UpdateSubscriptionStatus(ctx, sub.ID, models.StatusCancelled); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.Status = models.StatusCancelled
	s.log.Info("subscription cancelled", slog.Int("id", sub.ID), slog.String("user_uid", userUID))
	return sub, nil
}

// ListAll возвращает все подписки для админки, новые первыми.
// Попутно лениво истекают все просроченные активные записи.
func (s *SubscriptionService) ListAll(ctx context.Context) ([]*models.SubscriptionInfo, error) {
	const op = "services.subscription.ListAll"

	infos, err := s.subs.ListAllSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	for _, info := range infos {
		if models.DeriveStatus(&info.Subscription, now) != info.Status {
			if _, err := s.subs.UpdateSubscriptionStatus(ctx, info.ID, models.StatusExpired); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			info.Status = models.StatusExpired
			s.log.Info("subscription lazily expired during listing", slog.Int("id", info.ID))
		}
		info.DaysRemaining = info.Subscription.DaysRemaining(now)
	}
	return infos, nil
}

// Statistics возвращает агрегированные счетчики, подсчитанные в момент вызова.
func (s *SubscriptionService) Statistics(ctx context.Context) (*models.Statistics, error) {
	const op = "services.subscription.Statistics"

	stats, err := s.subs.CountSubscriptionStatistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}
