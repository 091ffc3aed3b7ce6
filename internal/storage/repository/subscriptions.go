package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (user_uid, plan_id, start_date, end_date, status)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.PlanID, sub.StartDate, sub.EndDate, sub.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// FindActiveByUser возвращает активную подписку пользователя.
// Если активной подписки нет, возвращает apperrors.ErrNotFound.
func (s *Storage) FindActiveByUser(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindActiveByUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, plan_id, start_date, end_date, status, created_at
			  FROM subscriptions
			  WHERE user_uid = $1 AND status = $2`
	row := s.DB.QueryRowContext(ctx, query, userUID, models.StatusActive)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.UserUID, &result.PlanID, &result.StartDate,
		&result.EndDate, &result.Status, &result.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateSubscriptionStatus обновляет статус подписки по её ID
// и возвращает количество изменённых строк.
func (s *Storage) UpdateSubscriptionStatus(ctx context.Context, id int, status string) (int, error) {
	const op = "storage.UpdateSubscriptionStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindSubscriptionInfo возвращает подписку по ID вместе с данными плана.
func (s *Storage) FindSubscriptionInfo(ctx context.Context, id int) (*models.SubscriptionInfo, error) {
	const op = "storage.FindSubscriptionInfo"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.user_uid, s.plan_id, s.start_date, s.end_date, s.status, s.created_at,
			      p.name, p.price, p.duration_days
			  FROM subscriptions s
			  JOIN plans p ON p.id = s.plan_id
			  WHERE s.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var info models.SubscriptionInfo
	if err := row.Scan(&info.ID, &info.UserUID, &info.PlanID, &info.StartDate, &info.EndDate,
		&info.Status, &info.CreatedAt, &info.PlanName, &info.PlanPrice, &info.PlanDurationDays); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &info, nil
}

// ListAllSubscriptions возвращает все подписки с данными пользователя и плана,
// новые записи первыми.
func (s *Storage) ListAllSubscriptions(ctx context.Context) ([]*models.SubscriptionInfo, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT s.id, s.user_uid, s.plan_id, s.start_date, s.end_date, s.status, s.created_at,
			      p.name, p.price, p.duration_days, u.name, u.email
			  FROM subscriptions s
			  JOIN plans p ON p.id = s.plan_id
			  JOIN users u ON u.uid = s.user_uid
			  ORDER BY s.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.SubscriptionInfo
	for rows.Next() {
		var info models.SubscriptionInfo
		if err := rows.Scan(&info.ID, &info.UserUID, &info.PlanID, &info.StartDate, &info.EndDate,
			&info.Status, &info.CreatedAt, &info.PlanName, &info.PlanPrice, &info.PlanDurationDays,
			&info.UserName, &info.UserEmail); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountSubscriptionStatistics подсчитывает агрегированные счетчики для админки.
func (s *Storage) CountSubscriptionStatistics(ctx context.Context) (*models.Statistics, error) {
	const op = "storage.CountSubscriptionStatistics"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT
			      (SELECT COUNT(*) FROM users WHERE role = 'user'),
			      (SELECT COUNT(*) FROM plans WHERE is_active),
			      COUNT(*),
			      COUNT(*) FILTER (WHERE status = 'active'),
			      COUNT(*) FILTER (WHERE status = 'expired'),
			      COUNT(*) FILTER (WHERE status = 'cancelled')
			  FROM subscriptions`
	var stats models.Statistics
	if err := s.DB.QueryRowContext(ctx, query).Scan(&stats.TotalUsers, &stats.TotalPlans,
		&stats.TotalSubscriptions, &stats.ActiveSubscriptions,
		&stats.ExpiredSubscriptions, &stats.CancelledSubscriptions); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}
