// Package models содержит доменные структуры приложения: пользователей,
// тарифные планы и подписки, а также чистые функции жизненного цикла подписки.
package models

import "time"

// Роли пользователей в системе.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    `json:"uid"`   // Уникальный идентификатор пользователя
	Name         string    `json:"name"`  // Отображаемое имя
	Email        string    `json:"email"` // Электронная почта (уникальная)
	PasswordHash string    `json:"-"`     // Хэш пароля, наружу не отдается
	Role         string    `json:"role"`  // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"created_at"`
}
