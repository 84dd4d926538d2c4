package domain

import "time"

type TicketStatus string

const (
	TicketPending TicketStatus = "pending"
	TicketUsed    TicketStatus = "used"
	TicketExpired TicketStatus = "expired"
)

// Ticket is an admin-issued, single-use PIN reset code.
type Ticket struct {
	ID        string
	AccountID string
	CodeHash  string
	Status    TicketStatus
	IssuedBy  string
	Attempts  int
	ExpiresAt time.Time
	CreatedAt time.Time
	UsedAt    *time.Time
}

// IsExpired reports whether the ticket's validity window has passed.
func (t *Ticket) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
