package models

import "time"

// Статусы жизненного цикла подписки.
const (
	StatusActive    = "active"
	StatusExpired   = "expired"
	StatusCancelled = "cancelled"
)

// Subscription представляет запись о подписке пользователя на план.
// Записи никогда не удаляются: отмененные и истекшие строки остаются
// в истории для статистики.
type Subscription struct {
	ID        int       `json:"id"`
	UserUID   string    `json:"user_uid"`
	PlanID    int       `json:"plan_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// DaysRemaining возвращает число дней до окончания подписки,
// округленное вверх и никогда не отрицательное.
func (s *Subscription) DaysRemaining(now time.Time) int {
	diff := s.EndDate.Sub(now)
	if diff <= 0 {
		return 0
	}
	return int((diff + 24*time.Hour - 1) / (24 * time.Hour))
}

// DeriveStatus вычисляет актуальный статус подписки на момент now.
// Активная подписка с прошедшей датой окончания считается истекшей;
// сохранение этого перехода — отдельный явный шаг на стороне сервиса.
func DeriveStatus(s *Subscription, now time.Time) string {
	if s.Status == StatusActive && now.After(s.EndDate) {
		return StatusExpired
	}
	return s.Status
}

// SubscriptionInfo — подписка, обогащенная данными плана и пользователя
// для выдачи наружу. DaysRemaining вычисляется, а не хранится.
type SubscriptionInfo struct {
	Subscription
	PlanName         string  `json:"plan_name"`
	PlanPrice        float64 `json:"plan_price"`
	PlanDurationDays int     `json:"plan_duration_days"`
	UserName         string  `json:"user_name,omitempty"`
	UserEmail        string  `json:"user_email,omitempty"`
	DaysRemaining    int     `json:"days_remaining"`
}

// Statistics — агрегированные счетчики для админской панели.
// Считаются в момент запроса, без кэширования.
type Statistics struct {
	TotalUsers             int `json:"total_users"`
	TotalPlans             int `json:"total_plans"`
	TotalSubscriptions     int `json:"total_subscriptions"`
	ActiveSubscriptions    int `json:"active_subscriptions"`
	ExpiredSubscriptions   int `json:"expired_subscriptions"`
	CancelledSubscriptions int `json:"cancelled_subscriptions"`
}
