package audit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/tillauth/pkg/slogx"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type memSink struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
	closed bool
}

func (s *memSink) Write(_ context.Context, e Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *memSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *memSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcher_StampsAndDrains(t *testing.T) {
	t.Parallel()

	sink := &memSink{}
	d := NewDispatcher(sink, 8, quietLogger())

	ctx := slogx.WithRequestID(context.Background(), "req-123")
	d.Record(ctx, Event{Type: TypeLoginSucceeded, AccountID: "202500001", Success: true})
	d.Record(ctx, Event{Type: TypeLogout, AccountID: "202500001", Success: true})

	require.NoError(t, d.Close())
	require.True(t, sink.closed)

	events := sink.snapshot()
	require.Len(t, events, 2)
	for _, e := range events {
		require.NotEmpty(t, e.ID)
		require.False(t, e.Time.IsZero())
		require.Equal(t, "req-123", e.RequestID)
	}
	require.NotEqual(t, events[0].ID, events[1].ID)

	// Recording after close is a no-op.
	d.Record(ctx, Event{Type: TypeLogout})
	require.Len(t, sink.snapshot(), 2)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	t.Parallel()

	sink := &memSink{block: make(chan struct{})}
	d := NewDispatcher(sink, 1, quietLogger())

	// The first event is picked up by the worker and blocks in Write, the
	// second fills the buffer, and the rest are dropped.
	for range 10 {
		d.Record(context.Background(), Event{Type: TypeLoginFailed})
	}
	require.Eventually(t, func() bool { return d.Dropped() >= 8 }, time.Second, 5*time.Millisecond)

	close(sink.block)
	require.NoError(t, d.Close())
	require.Equal(t, uint64(10), d.Dropped()+uint64(len(sink.snapshot())))
}

func TestDispatcher_SinkErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	sink := &memSink{err: errors.New("disk full")}
	d := NewDispatcher(sink, 4, quietLogger())

	d.Record(context.Background(), Event{Type: TypeTicketIssued})
	require.NoError(t, d.Close())
	require.Len(t, sink.snapshot(), 1)
}

func TestZapSink(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewZapSink(core)

	err := sink.Write(context.Background(), Event{
		ID: "evt", Type: TypeAccountUnlocked, AccountID: "202500001", Actor: "202500000",
		Realm: "primary", Success: true, Time: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, TypeAccountUnlocked, fields["type"])
	require.Equal(t, "202500000", fields["actor"])
	require.Equal(t, "primary", fields["realm"])
	require.NotContains(t, fields, "reason")
}

func TestFileSink_WritesJSONLines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sink, err := NewFileSink(FileSinkConfig{Pattern: dir + "/audit.%Y%m%d.log"})
	require.NoError(t, err)

	require.NoError(t, sink.Write(context.Background(), Event{ID: "evt", Type: TypeBootstrap, Success: true, Time: time.Now()}))
	require.NoError(t, sink.Close())
}

func TestRedisSink_XAdd(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sink := NewRedisSink(client, RedisSinkConfig{Stream: "audit-test"})
	t.Cleanup(func() { _ = sink.Close() })

	err := sink.Write(context.Background(), Event{
		ID: "evt-1", Type: TypePasswordReset, AccountID: "202500001", Success: true,
		Time: time.Unix(1_760_000_000, 0), Metadata: map[string]string{"method": "email"},
	})
	require.NoError(t, err)

	msgs, err := client.XRange(context.Background(), "audit-test", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "evt-1", msgs[0].Values["event_id"])
	require.Equal(t, TypePasswordReset, msgs[0].Values["type"])
	require.Equal(t, "1", msgs[0].Values["success"])

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(msgs[0].Values["metadata"].(string)), &meta))
	require.Equal(t, "email", meta["method"])
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	sink := LogSink{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	require.NoError(t, sink.Write(context.Background(), Event{ID: "evt", Type: TypeLogout, AccountID: "202500001"}))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "audit", line["msg"])
	require.Equal(t, TypeLogout, line["type"])
	require.Equal(t, "202500001", line["account_id"])
}

type syncBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf...)
}
