// Package apperrors определяет общие ошибки предметной области,
// которые сервисы возвращают наверх, а HTTP-обработчики переводят
// в статусы ответов.
package apperrors

import "errors"

var (
	// ErrNotFound — запрошенная сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — нарушение уникальности (например, повторная регистрация email).
	ErrConflict = errors.New("already exists")
	// ErrInvalidCredentials — неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenExpired — срок действия токена истек; клиент может запустить refresh.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid — подпись неверна, токен поврежден или уже ротирован.
	ErrTokenInvalid = errors.New("invalid token")
)
