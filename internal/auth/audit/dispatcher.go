package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/tillauth/pkg/slogx"
)

const DefaultBufferSize = 256

// Dispatcher hands events to a Sink on a background goroutine. When the
// buffer is full the event is dropped and counted.
type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
	now    func() time.Time

	ch        chan Event
	done      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	closed    atomic.Bool
	closeOnce sync.Once
}

func NewDispatcher(sink Sink, buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBufferSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		now:    time.Now,
		ch:     make(chan Event, buffer),
		done:   make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Record stamps the event with an id, time and request id, then queues it.
func (d *Dispatcher) Record(ctx context.Context, e Event) {
	if d == nil || d.closed.Load() {
		return
	}
	if e.ID == "" {
		e.ID = newEventID()
	}
	if e.Time.IsZero() {
		e.Time = d.now().UTC()
	}
	if e.RequestID == "" && ctx != nil {
		e.RequestID = slogx.RequestID(ctx)
	}

	select {
	case d.ch <- e:
	case <-d.done:
	default:
		d.dropped.Add(1)
		d.logger.Warn("audit event dropped", slog.String("type", e.Type), slog.String("event_id", e.ID))
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case e := <-d.ch:
			d.write(e)
		case <-d.done:
			for {
				select {
				case e := <-d.ch:
					d.write(e)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) write(e Event) {
	if err := d.sink.Write(context.Background(), e); err != nil {
		d.logger.Error("audit write failed",
			slog.String("type", e.Type),
			slog.String("event_id", e.ID),
			slog.Any("error", err),
		)
	}
}

// Close drains queued events and closes the sink.
func (d *Dispatcher) Close() error {
	if d == nil {
		return nil
	}
	var err error
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
		err = d.sink.Close()
	})
	return err
}

// Dropped reports how many events were discarded because the buffer was full.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
