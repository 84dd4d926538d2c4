// Package audit records security-relevant outcomes. Recording is
// best-effort: a failing sink never fails the operation that produced the
// event.
package audit

import (
	"context"
	"time"

	"github.com/segmentio/ksuid"
)

// Event types.
const (
	TypeLoginSucceeded       = "login.succeeded"
	TypeLoginFailed          = "login.failed"
	TypeLogout               = "logout"
	TypeAccountLocked        = "account.locked"
	TypeAccountUnlocked      = "account.unlocked"
	TypeAccountCreated       = "account.created"
	TypeBootstrap            = "bootstrap"
	TypeRecoveryCodeIssued   = "recovery.code_issued"
	TypeRecoveryCodeVerified = "recovery.code_verified"
	TypeSecurityAnswerFailed = "recovery.security_answer_failed"
	TypeSecurityAnswerPassed = "recovery.security_answer_passed"
	TypeSecurityAnswerSet    = "security_answer.set"
	TypePasswordReset        = "password.reset"
	TypePasswordRehashed     = "password.rehashed"
	TypeTicketIssued         = "ticket.issued"
	TypeTicketRedeemed       = "ticket.redeemed"
	TypeTicketRedeemFailed   = "ticket.redeem_failed"
)

type Event struct {
	ID        string            `json:"id"`
	Time      time.Time         `json:"time"`
	Type      string            `json:"type"`
	AccountID string            `json:"account_id,omitempty"`
	Realm     string            `json:"realm,omitempty"`
	Actor     string            `json:"actor,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Success   bool              `json:"success"`
	Reason    string            `json:"reason,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Recorder accepts events. Implementations must not block the caller for
// long and must not return errors to it.
type Recorder interface {
	Record(ctx context.Context, e Event)
}

// Sink persists events. Write is called from a single goroutine.
type Sink interface {
	Write(ctx context.Context, e Event) error
	Close() error
}

// Discard drops every event.
var Discard Recorder = discard{}

type discard struct{}

func (discard) Record(context.Context, Event) {}

func newEventID() string { return ksuid.New().String() }
