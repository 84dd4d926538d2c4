// Package mail delivers recovery codes.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	gomail "github.com/wneessen/go-mail"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// RecoveryCodeMessage renders the password-reset email.
func RecoveryCodeMessage(to, code string, expiresAt time.Time) Message {
	return Message{
		To:      to,
		Subject: "Your password reset code",
		Body: fmt.Sprintf(
			"Your password reset code is %s.\r\n\r\nIt expires at %s. If you did not ask for it, ignore this email.\r\n",
			code, expiresAt.UTC().Format(time.RFC1123),
		),
	}
}

// LogMailer writes messages to the logger instead of sending them. Bodies
// are only logged when ShowBody is set, which is limited to ENV=dev.
type LogMailer struct {
	Logger   *slog.Logger
	ShowBody bool
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	attrs := []slog.Attr{
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	}
	if m.ShowBody {
		attrs = append(attrs, slog.String("body", msg.Body))
	}
	m.Logger.LogAttrs(ctx, slog.LevelInfo, "mail", attrs...)
	return nil
}

type SMTPConfig struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

// SMTPMailer sends through a relay with PLAIN auth when credentials are set.
// STARTTLS is used when the relay offers it.
type SMTPMailer struct {
	cfg    SMTPConfig
	dialer net.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// Send delivers msg within the lifetime of ctx. The deadline of ctx bounds
// every read and write on the connection, so a relay that stalls mid
// conversation cannot hold the caller past it.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := m.message(msg)
	if err != nil {
		return err
	}

	var release func() bool
	defer func() {
		if release != nil {
			release()
		}
	}()
	dial := func(dctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := m.dialer.DialContext(dctx, network, addr)
		if err != nil {
			return nil, err
		}
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetDeadline(deadline)
		}
		release = context.AfterFunc(ctx, func() { _ = conn.Close() })
		return conn, nil
	}

	client, err := m.client(ctx, dial)
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("smtp send to %s: %w", m.cfg.Addr, ctxErr)
		}
		return fmt.Errorf("smtp send to %s: %w", m.cfg.Addr, err)
	}
	return nil
}

func (m *SMTPMailer) client(ctx context.Context, dial gomail.DialContextFunc) (*gomail.Client, error) {
	host, portStr, err := net.SplitHostPort(m.cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("smtp addr %q: %w", m.cfg.Addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("smtp addr %q: %w", m.cfg.Addr, err)
	}

	timeout := DefaultSendTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d > 0 {
			timeout = d
		}
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTimeout(timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
		gomail.WithDialContextFunc(dial),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	return gomail.NewClient(host, opts...)
}

func (m *SMTPMailer) message(msg Message) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from %q: %w", m.cfg.From, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp to %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return out, nil
}
