package models

// Plan представляет тарифный план из каталога.
// Планы создаются сидированием или админским тулингом и
// доступны пользователям только на чтение.
type Plan struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`          // Название плана (уникальное)
	Price        float64  `json:"price"`         // Цена, >= 0
	DurationDays int      `json:"duration_days"` // Длительность в днях, >= 1
	Features     []string `json:"features"`      // Упорядоченный список возможностей
	IsActive     bool     `json:"is_active"`
}
