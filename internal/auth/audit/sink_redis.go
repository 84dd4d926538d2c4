package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisStream = "tillauth:audit"
	DefaultRedisMaxLen = 100_000
)

type RedisSinkConfig struct {
	Stream string
	MaxLen int64
	// Timeout bounds a single XADD.
	Timeout time.Duration
}

// RedisSink appends events to a Redis stream so other services can consume
// them with XREAD or consumer groups.
type RedisSink struct {
	client *redis.Client
	cfg    RedisSinkConfig
}

func NewRedisSink(client *redis.Client, cfg RedisSinkConfig) *RedisSink {
	if cfg.Stream == "" {
		cfg.Stream = DefaultRedisStream
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = DefaultRedisMaxLen
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &RedisSink{client: client, cfg: cfg}
}

func (s *RedisSink) Write(ctx context.Context, e Event) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	values := map[string]any{
		"event_id": e.ID,
		"type":     e.Type,
		"time":     e.Time.UTC().Format(time.RFC3339Nano),
		"success":  e.Success,
	}
	if e.AccountID != "" {
		values["account_id"] = e.AccountID
	}
	if e.Realm != "" {
		values["realm"] = e.Realm
	}
	if e.Actor != "" {
		values["actor"] = e.Actor
	}
	if e.RequestID != "" {
		values["request_id"] = e.RequestID
	}
	if e.Reason != "" {
		values["reason"] = e.Reason
	}
	if len(e.Metadata) > 0 {
		meta, err := json.Marshal(e.Metadata)
		if err != nil {
			return err
		}
		values["metadata"] = string(meta)
	}

	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Stream,
		MaxLen: s.cfg.MaxLen,
		Approx: true,
		Values: values,
	}).Err()
}

func (s *RedisSink) Close() error { return s.client.Close() }
