package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
	"github.com/aussiebroadwan/tillauth/internal/auth/store"
)

var ErrIdentityNotFound = errors.New("identity not found")

// IdentityService resolves login identifiers to accounts. It has no side
// effects.
type IdentityService struct {
	Store           store.Store
	AccountIDLength int
}

func (s *IdentityService) idLength() int {
	if s.AccountIDLength <= 0 {
		return domain.DefaultAccountIDLength
	}
	return s.AccountIDLength
}

// Classify decides which alias kind an identifier is.
func (s *IdentityService) Classify(identifier string) domain.IdentifierType {
	if IsAccountID(identifier, s.idLength()) {
		return domain.IdentifierAccountID
	}
	if strings.Contains(identifier, "@") {
		return domain.IdentifierEmail
	}
	return domain.IdentifierUsername
}

// Resolve returns the account an identifier refers to and how it was
// classified.
func (s *IdentityService) Resolve(ctx context.Context, identifier string) (domain.Account, domain.IdentifierType, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return domain.Account{}, "", ErrIdentityNotFound
	}

	kind := s.Classify(identifier)

	var (
		account domain.Account
		err     error
	)
	switch kind {
	case domain.IdentifierAccountID:
		account, err = s.Store.Accounts().GetByID(ctx, identifier)
	case domain.IdentifierEmail:
		account, err = s.Store.Accounts().GetByAlias(ctx, domain.AliasEmail, NormalizeAlias(identifier))
	default:
		account, err = s.Store.Accounts().GetByAlias(ctx, domain.AliasUsername, NormalizeAlias(identifier))
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, kind, ErrIdentityNotFound
		}
		return domain.Account{}, kind, err
	}
	return account, kind, nil
}

// NormalizeAlias lowercases and trims a username or email.
func NormalizeAlias(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// IsAccountID reports whether v is exactly n ASCII digits.
func IsAccountID(v string, n int) bool {
	if len(v) != n {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}
