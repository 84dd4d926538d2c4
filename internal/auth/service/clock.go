package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/audit"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

func record(ctx context.Context, r audit.Recorder, e audit.Event) {
	if r == nil {
		return
	}
	r.Record(ctx, e)
}
