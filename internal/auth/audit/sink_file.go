package audit

import (
	"context"
	"fmt"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultFilePattern = "audit.%Y%m%d.log"
	DefaultFileMaxAge  = 90 * 24 * time.Hour
)

type FileSinkConfig struct {
	// Pattern is a strftime file name pattern, e.g. /var/log/tillauth/audit.%Y%m%d.log.
	Pattern string
	MaxAge  time.Duration
}

// FileSink appends one JSON line per event to daily rotated files.
type FileSink struct {
	logger *zap.Logger
	closer func() error
}

func NewFileSink(cfg FileSinkConfig) (*FileSink, error) {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultFilePattern
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = DefaultFileMaxAge
	}

	w, err := rotatelogs.New(cfg.Pattern,
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(cfg.MaxAge),
	)
	if err != nil {
		return nil, fmt.Errorf("audit file: %w", err)
	}

	return &FileSink{
		logger: zap.New(newJSONCore(zapcore.AddSync(w))),
		closer: w.Close,
	}, nil
}

// NewZapSink wraps an existing zap core. Used for tests and for routing
// audit lines into a host application's zap pipeline.
func NewZapSink(core zapcore.Core) *FileSink {
	return &FileSink{logger: zap.New(core), closer: func() error { return nil }}
}

func newJSONCore(ws zapcore.WriteSyncer) zapcore.Core {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "logged_at"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewCore(zapcore.NewJSONEncoder(enc), ws, zapcore.InfoLevel)
}

func (s *FileSink) Write(_ context.Context, e Event) error {
	fields := []zap.Field{
		zap.String("event_id", e.ID),
		zap.String("type", e.Type),
		zap.Time("time", e.Time),
		zap.Bool("success", e.Success),
	}
	if e.AccountID != "" {
		fields = append(fields, zap.String("account_id", e.AccountID))
	}
	if e.Realm != "" {
		fields = append(fields, zap.String("realm", e.Realm))
	}
	if e.Actor != "" {
		fields = append(fields, zap.String("actor", e.Actor))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}
	if e.Reason != "" {
		fields = append(fields, zap.String("reason", e.Reason))
	}
	if len(e.Metadata) > 0 {
		fields = append(fields, zap.Any("metadata", e.Metadata))
	}
	s.logger.Info("audit", fields...)
	return nil
}

func (s *FileSink) Close() error {
	_ = s.logger.Sync()
	return s.closer()
}
