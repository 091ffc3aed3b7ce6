// Package jwt реализует выпуск и разбор пары JWT токенов: короткоживущего
// access-токена и долгоживущего refresh-токена, привязанных к пользователю.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Типы токенов, записываемые в claims. Разбор access-токена отвергает
// refresh-токен и наоборот.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// CustomClaims описывает пользовательские данные, хранящиеся в JWT.
type CustomClaims struct {
	UserUID              string `json:"user_uid"`   // Идентификатор пользователя
	Role                 string `json:"role"`       // Роль пользователя
	TokenType            string `json:"token_type"` // access или refresh
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга пары токенов.
type Maker interface {
	// GenerateAccessToken выпускает короткоживущий access-токен.
	GenerateAccessToken(userUID, role string) (string, error)
	// GenerateRefreshToken выпускает refresh-токен и возвращает момент его истечения.
	GenerateRefreshToken(userUID string) (string, time.Time, error)
	// ParseAccessToken проверяет подпись и срок действия access-токена.
	ParseAccessToken(tokenStr string) (*CustomClaims, error)
	// ParseRefreshToken проверяет подпись и срок действия refresh-токена.
	ParseRefreshToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker. Access и refresh токены
// подписываются разными секретами и живут разное время.
type MakerImpl struct {
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
func NewJWTMaker(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}
