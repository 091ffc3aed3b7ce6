// Package services содержит логику бизнес-уровня для регистрации,
// аутентификации и ротации пары access/refresh токенов.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/lib/jwt"
	"github.com/ivankoval/subscription-dashboard/internal/lib/password"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или apperrors.ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByUID возвращает пользователя по UID или apperrors.ErrNotFound.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
}

// TokenRepository описывает хранилище выпущенных refresh-токенов.
// Токен однократного применения: ротация удаляет строку.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userUID, token string, expiresAt time.Time) error
	DeleteRefreshToken(ctx context.Context, token string) (int, error)
	DeleteRefreshTokensByUser(ctx context.Context, userUID string) error
}

// TokenPair — пара выпущенных токенов.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService отвечает за регистрацию, авторизацию, валидацию access-токенов
// и ротацию refresh-токенов.
type AuthService struct {
	users    UserRepository
	tokens   TokenRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, tokens TokenRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля и дефолтной
// ролью "user", затем выпускает пару токенов. Повторный email возвращает
// apperrors.ErrConflict, нарушение парольной политики — её ошибку.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword string) (*models.User, *TokenPair, error) {
	const op = "services.auth.Register"

	if err := password.ValidatePolicy(rawPassword); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	user.UID = uid

	pair, err := s.issueTokens(ctx, &user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, pair, nil
}

// Login проверяет пароль пользователя и выпускает пару токенов.
// Неизвестный email и неверный пароль неразличимы для вызывающей стороны.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*models.User, *TokenPair, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidCredentials)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidCredentials)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, pair, nil
}

// Refresh ротирует refresh-токен: проверяет подпись и срок действия,
// удаляет старый токен из хранилища и выпускает новую пару.
// Ротированный токен однократный: повторное использование возвращает
// apperrors.ErrTokenInvalid.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "services.auth.Refresh"

	claims, err := s.jwtMaker.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	deleted, err := s.tokens.DeleteRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if deleted == 0 {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTokenInvalid)
	}

	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pair, nil
}

// Logout удаляет все refresh-токены пользователя.
// Access-токен не отзывается и остается валидным до естественного истечения.
func (s *AuthService) Logout(ctx context.Context, userUID string) error {
	const op = "services.auth.Logout"
	if err := s.tokens.DeleteRefreshTokensByUser(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ValidateToken проверяет access-токен и возвращает пользователя.
// Истекший токен возвращает apperrors.ErrTokenExpired, чтобы клиент
// мог запустить refresh-поток вместо повторного логина.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (*models.User, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user, err := s.users.GetUserByUID(ctx, claims.UserUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.jwtMaker.GenerateAccessToken(user.UID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.jwtMaker.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.SaveRefreshToken(ctx, user.UID, refresh, expiresAt); err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
