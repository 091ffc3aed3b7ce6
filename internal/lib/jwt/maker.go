package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
)

// GenerateAccessToken создает access-токен с userUID и role,
// подписанный accessSecret. Время жизни определяется accessTTL.
func (j *MakerImpl) GenerateAccessToken(userUID, role string) (string, error) {
	const op = "jwt.GenerateAccessToken"
	token, err := j.generate(userUID, role, TokenTypeAccess, j.accessSecret, j.accessTTL)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// GenerateRefreshToken создает refresh-токен, подписанный refreshSecret,
// и возвращает момент его истечения для сохранения в хранилище.
func (j *MakerImpl) GenerateRefreshToken(userUID string) (string, time.Time, error) {
	const op = "jwt.GenerateRefreshToken"
	expiresAt := time.Now().Add(j.refreshTTL)
	token, err := j.generate(userUID, "", TokenTypeRefresh, j.refreshSecret, j.refreshTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return token, expiresAt, nil
}

// ParseAccessToken парсит access-токен, проверяет его подпись и срок действия.
// Истекший токен различается отдельной ошибкой apperrors.ErrTokenExpired,
// чтобы вызывающая сторона могла запустить refresh-поток вместо повторного логина.
func (j *MakerImpl) ParseAccessToken(tokenStr string) (*CustomClaims, error) {
	return j.parse(tokenStr, TokenTypeAccess, j.accessSecret)
}

// ParseRefreshToken парсит refresh-токен, проверяет его подпись и срок действия.
func (j *MakerImpl) ParseRefreshToken(tokenStr string) (*CustomClaims, error) {
	return j.parse(tokenStr, TokenTypeRefresh, j.refreshSecret)
}

func (j *MakerImpl) generate(userUID, role, tokenType, secret string, ttl time.Duration) (string, error) {
	claims := CustomClaims{
		UserUID:   userUID,
		Role:      role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// Уникальный jti: два токена одного пользователя, выпущенные
			// в одну секунду, не должны совпадать.
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func (j *MakerImpl) parse(tokenStr, wantType, secret string) (*CustomClaims, error) {
	const op = "jwt.parse"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.TokenType != wantType {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrTokenInvalid)
	}
	return claims, nil
}
