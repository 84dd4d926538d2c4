package mail

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultOutboxSize  = 64
	DefaultSendTimeout = 15 * time.Second
)

// Outbox sends mail on a background goroutine so request latency never
// depends on the relay. Failures are logged and never reported to the
// enqueuer.
type Outbox struct {
	mailer      Mailer
	logger      *slog.Logger
	sendTimeout time.Duration

	ch        chan Message
	done      chan struct{}
	wg        sync.WaitGroup
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewOutbox(m Mailer, size int, logger *slog.Logger) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	o := &Outbox{
		mailer:      m,
		logger:      logger,
		sendTimeout: DefaultSendTimeout,
		ch:          make(chan Message, size),
		done:        make(chan struct{}),
	}
	o.wg.Add(1)
	go o.run()
	return o
}

// Send queues msg. It returns nil even when the queue is full; the drop is
// logged.
func (o *Outbox) Send(ctx context.Context, msg Message) error {
	if o.closed.Load() {
		o.logger.Warn("mail outbox closed, message dropped", slog.String("to", msg.To))
		return nil
	}
	select {
	case o.ch <- msg:
	default:
		o.logger.Warn("mail outbox full, message dropped", slog.String("to", msg.To))
	}
	return nil
}

func (o *Outbox) run() {
	defer o.wg.Done()

	for {
		select {
		case msg := <-o.ch:
			o.deliver(msg)
		case <-o.done:
			for {
				select {
				case msg := <-o.ch:
					o.deliver(msg)
				default:
					return
				}
			}
		}
	}
}

func (o *Outbox) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), o.sendTimeout)
	defer cancel()

	if err := o.mailer.Send(ctx, msg); err != nil {
		o.logger.Error("mail send failed",
			slog.String("to", msg.To),
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
	}
}

// Close flushes queued messages.
func (o *Outbox) Close() {
	o.closeOnce.Do(func() {
		o.closed.Store(true)
		close(o.done)
		o.wg.Wait()
	})
}
