package repository

import (
	"context"
	"fmt"
	"time"
)

// SaveRefreshToken сохраняет выпущенный refresh-токен пользователя.
func (s *Storage) SaveRefreshToken(ctx context.Context, userUID, token string, expiresAt time.Time) error {
	const op = "storage.SaveRefreshToken"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO refresh_tokens (user_uid, token, expires_at)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query, userUID, token, expiresAt); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteRefreshToken удаляет refresh-токен по его значению и возвращает
// количество удалённых строк. Ноль означает, что токен уже был ротирован.
func (s *Storage) DeleteRefreshToken(ctx context.Context, token string) (int, error) {
	const op = "storage.DeleteRefreshToken"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM refresh_tokens WHERE token = $1`
	result, err := s.DB.ExecContext(ctx, query, token)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// DeleteRefreshTokensByUser удаляет все refresh-токены пользователя (logout).
func (s *Storage) DeleteRefreshTokensByUser(ctx context.Context, userUID string) error {
	const op = "storage.DeleteRefreshTokensByUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM refresh_tokens WHERE user_uid = $1`
	if _, err := s.DB.ExecContext(ctx, query, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteExpiredRefreshTokens удаляет все истекшие refresh-токены.
func (s *Storage) DeleteExpiredRefreshTokens(ctx context.Context) (int, error) {
	const op = "storage.DeleteExpiredRefreshTokens"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM refresh_tokens WHERE expires_at < $1`
	result, err := s.DB.ExecContext(ctx, query, time.Now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
