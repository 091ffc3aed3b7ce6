package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// ListActivePlans возвращает все активные планы, отсортированные по цене по возрастанию.
func (s *Storage) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListActivePlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, duration_days, features, is_active
			  FROM plans
			  WHERE is_active
			  ORDER BY price`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindPlanByID возвращает план по его ID.
func (s *Storage) FindPlanByID(ctx context.Context, id int) (*models.Plan, error) {
	const op = "storage.FindPlanByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, price, duration_days, features, is_active
			  FROM plans
			  WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	plan, err := scanPlan(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plan, nil
}

// CountActivePlans возвращает число активных планов.
func (s *Storage) CountActivePlans(ctx context.Context) (int, error) {
	const op = "storage.CountActivePlans"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans WHERE is_active`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPlan читает план из строки результата; features хранятся как jsonb.
func scanPlan(row rowScanner) (*models.Plan, error) {
	var plan models.Plan
	var features []byte
	if err := row.Scan(&plan.ID, &plan.Name, &plan.Price, &plan.DurationDays, &features, &plan.IsActive); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(features, &plan.Features); err != nil {
		return nil, err
	}
	return &plan, nil
}
