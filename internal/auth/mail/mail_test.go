package mail

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	mu   sync.Mutex
	msgs []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.msgs)
}

func TestRecoveryCodeMessage(t *testing.T) {
	t.Parallel()

	msg := RecoveryCodeMessage("a@example.com", "123456", time.Unix(0, 0))
	require.Equal(t, "a@example.com", msg.To)
	require.Contains(t, msg.Body, "123456")
}

func TestLogMailer_HidesBodyOutsideDev(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	msg := RecoveryCodeMessage("a@example.com", "654321", time.Now())

	require.NoError(t, LogMailer{Logger: logger}.Send(context.Background(), msg))
	require.NotContains(t, buf.String(), "654321")

	buf.Reset()
	require.NoError(t, LogMailer{Logger: logger, ShowBody: true}.Send(context.Background(), msg))
	require.Contains(t, buf.String(), "654321")
}

func TestSMTPMailer_Message(t *testing.T) {
	t.Parallel()

	m := NewSMTPMailer(SMTPConfig{Addr: "smtp.example.com:587", From: "pos@example.com"})
	out, err := m.message(Message{To: "a@example.com", Subject: "Hi", Body: "body"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = out.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	require.Contains(t, raw, "pos@example.com")
	require.Contains(t, raw, "a@example.com")
	require.Contains(t, raw, "Subject: Hi\r\n")
	require.Contains(t, raw, "body")

	_, err = m.message(Message{To: "not an address"})
	require.Error(t, err)
}

// silentRelay accepts connections and never sends a greeting.
func silentRelay(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		conns []net.Conn
	)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			mu.Lock()
			conns = append(conns, conn)
			mu.Unlock()
		}
	}()
	t.Cleanup(func() {
		_ = ln.Close()
		mu.Lock()
		defer mu.Unlock()
		for _, c := range conns {
			_ = c.Close()
		}
	})
	return ln.Addr().String()
}

func TestSMTPMailer_StalledRelay(t *testing.T) {
	t.Parallel()

	msg := Message{To: "a@example.com", Subject: "Hi", Body: "body"}

	t.Run("deadline", func(t *testing.T) {
		t.Parallel()
		m := NewSMTPMailer(SMTPConfig{Addr: silentRelay(t), From: "pos@example.com"})

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		start := time.Now()
		err := m.Send(ctx, msg)
		require.Error(t, err)
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("cancel", func(t *testing.T) {
		t.Parallel()
		m := NewSMTPMailer(SMTPConfig{Addr: silentRelay(t), From: "pos@example.com"})

		ctx, cancel := context.WithCancel(context.Background())
		time.AfterFunc(200*time.Millisecond, cancel)

		start := time.Now()
		err := m.Send(ctx, msg)
		require.ErrorIs(t, err, context.Canceled)
		require.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("outbox keeps draining", func(t *testing.T) {
		t.Parallel()
		m := NewSMTPMailer(SMTPConfig{Addr: silentRelay(t), From: "pos@example.com"})
		o := NewOutbox(m, 4, slog.New(slog.NewTextHandler(io.Discard, nil)))
		o.sendTimeout = 100 * time.Millisecond

		require.NoError(t, o.Send(context.Background(), msg))
		require.NoError(t, o.Send(context.Background(), msg))

		closed := make(chan struct{})
		go func() {
			o.Close()
			close(closed)
		}()
		select {
		case <-closed:
		case <-time.After(3 * time.Second):
			t.Fatal("outbox stuck behind a stalled relay")
		}
	})
}

func TestSMTPMailer_BadAddr(t *testing.T) {
	t.Parallel()

	m := NewSMTPMailer(SMTPConfig{Addr: "smtp.example.com", From: "pos@example.com"})
	require.Error(t, m.Send(context.Background(), Message{To: "a@example.com"}))
}

func TestOutbox_DeliversAndSwallowsErrors(t *testing.T) {
	t.Parallel()

	m := &recordingMailer{err: errors.New("relay down")}
	o := NewOutbox(m, 4, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, o.Send(context.Background(), Message{To: "a@example.com"}))
	require.NoError(t, o.Send(context.Background(), Message{To: "b@example.com"}))
	o.Close()

	require.Equal(t, 2, m.count())
	require.NoError(t, o.Send(context.Background(), Message{To: "c@example.com"}))
	require.Equal(t, 2, m.count())
}
