package service

import (
	"errors"
	"slices"
	"strings"

	"github.com/aussiebroadwan/tillauth/internal/auth/domain"
)

var ErrUnknownRealm = errors.New("unknown realm")

// Realms is the configured set of applications. The first entry is the
// default for requests that name none.
type Realms []domain.Realm

func DefaultRealms() Realms { return Realms{"primary", "secondary"} }

// Resolve validates a requested realm name.
func (r Realms) Resolve(name string) (domain.Realm, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if len(r) == 0 {
			return "", ErrUnknownRealm
		}
		return r[0], nil
	}
	realm := domain.Realm(name)
	if realm.IsSecurityQuestion() || !slices.Contains(r, realm) {
		return "", ErrUnknownRealm
	}
	return realm, nil
}

// ResolveLedger is Resolve that also accepts the security-question realm of
// a configured realm, for administrative unlocks.
func (r Realms) ResolveLedger(name string) (domain.Realm, error) {
	name = strings.TrimSpace(name)
	if base, ok := strings.CutSuffix(name, domain.Realm("").SecurityQuestion().String()); ok {
		if base == "" {
			return "", ErrUnknownRealm
		}
		realm, err := r.Resolve(base)
		if err != nil {
			return "", err
		}
		return realm.SecurityQuestion(), nil
	}
	return r.Resolve(name)
}
