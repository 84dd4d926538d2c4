package service

import (
	"errors"
	"unicode/utf8"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

const (
	MinPasswordLength = 8
	MinPINLength      = 4
	MaxPINLength      = 6
)

var ErrWeakSecret = errors.New("secret does not meet policy")

// ValidateSecret applies the role's secret policy: passwords need at least
// MinPasswordLength characters, PINs are 4 to 6 digits.
func ValidateSecret(role domain.Role, secret string) error {
	if role.UsesPIN() {
		if len(secret) < MinPINLength || len(secret) > MaxPINLength {
			return ErrWeakSecret
		}
		for i := 0; i < len(secret); i++ {
			if secret[i] < '0' || secret[i] > '9' {
				return ErrWeakSecret
			}
		}
		return nil
	}
	if utf8.RuneCountInString(secret) < MinPasswordLength {
		return ErrWeakSecret
	}
	return nil
}
