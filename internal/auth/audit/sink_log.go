package audit

import (
	"context"
	"log/slog"
)

// LogSink writes events to a slog logger at info level.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Write(ctx context.Context, e Event) error {
	attrs := []slog.Attr{
		slog.String("event_id", e.ID),
		slog.String("type", e.Type),
		slog.Time("time", e.Time),
		slog.Bool("success", e.Success),
	}
	if e.AccountID != "" {
		attrs = append(attrs, slog.String("account_id", e.AccountID))
	}
	if e.Realm != "" {
		attrs = append(attrs, slog.String("realm", e.Realm))
	}
	if e.Actor != "" {
		attrs = append(attrs, slog.String("actor", e.Actor))
	}
	if e.RequestID != "" {
		attrs = append(attrs, slog.String("req_id", e.RequestID))
	}
	if e.Reason != "" {
		attrs = append(attrs, slog.String("reason", e.Reason))
	}
	if len(e.Metadata) > 0 {
		attrs = append(attrs, slog.Any("metadata", e.Metadata))
	}
	s.Logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
	return nil
}

func (LogSink) Close() error { return nil }
