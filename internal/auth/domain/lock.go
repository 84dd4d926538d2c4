package domain

import (
	"math"
	"time"
)

// LockPolicy is fixed at construction of the lockout ledger.
type LockPolicy struct {
	// TemporaryThreshold failures lock the realm for TemporaryDuration.
	TemporaryThreshold int
	TemporaryDuration  time.Duration

	// PermanentThreshold failures lock the realm until an admin unlocks it.
	PermanentThreshold int
}

// DefaultLockPolicy is 5 failures for 15 minutes, then permanent at 6.
func DefaultLockPolicy() LockPolicy {
	return LockPolicy{
		TemporaryThreshold: 5,
		TemporaryDuration:  15 * time.Minute,
		PermanentThreshold: 6,
	}
}

// Apply returns the lock fields for a failure count.
func (p LockPolicy) Apply(failures int, now time.Time) (permanent bool, lockedUntil *time.Time) {
	switch {
	case failures >= p.PermanentThreshold:
		return true, nil
	case failures >= p.TemporaryThreshold:
		until := now.Add(p.TemporaryDuration)
		return false, &until
	default:
		return false, nil
	}
}

// LockState is the stored ledger row for (account, realm).
type LockState struct {
	AccountID   string
	Realm       Realm
	Failures    int
	LockedUntil *time.Time
	Permanent   bool
	UpdatedAt   time.Time
}

// Status derives the effective lock at now. An elapsed temporary lock reads
// as clear.
func (s LockState) Status(now time.Time) LockStatus {
	if s.Permanent {
		return LockStatus{Locked: true, Permanent: true}
	}
	if s.LockedUntil != nil && now.Before(*s.LockedUntil) {
		return LockStatus{
			Locked:           true,
			LockedUntil:      s.LockedUntil,
			RemainingSeconds: int64(math.Ceil(s.LockedUntil.Sub(now).Seconds())),
		}
	}
	return LockStatus{}
}

// LockStatus is the derived lock for a realm. The zero value is clear.
type LockStatus struct {
	Locked           bool
	Permanent        bool
	LockedUntil      *time.Time
	RemainingSeconds int64
}
