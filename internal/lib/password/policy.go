package password

import (
	"errors"
	"unicode"
)

// Ошибки парольной политики.
var (
	ErrTooShort = errors.New("password must be at least 8 characters long")
	ErrNoUpper  = errors.New("password must contain at least one uppercase letter")
	ErrNoLower  = errors.New("password must contain at least one lowercase letter")
	ErrNoDigit  = errors.New("password must contain at least one digit")
)

// IsPolicyViolation сообщает, является ли ошибка нарушением парольной политики.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrNoUpper) ||
		errors.Is(err, ErrNoLower) ||
		errors.Is(err, ErrNoDigit)
}

// ValidatePolicy проверяет пароль на соответствие политике:
// минимум 8 символов, хотя бы одна заглавная и одна строчная буквы, хотя бы одна цифра.
func ValidatePolicy(password string) error {
	if len(password) < 8 {
		return ErrTooShort
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper {
		return ErrNoUpper
	}
	if !hasLower {
		return ErrNoLower
	}
	if !hasDigit {
		return ErrNoDigit
	}
	return nil
}
