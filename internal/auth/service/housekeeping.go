package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/tillauth/internal/auth/store"
)

// DefaultOTPRetention is how long used and expired codes are kept.
const DefaultOTPRetention = 7 * 24 * time.Hour

// HousekeepingService periodically sweeps lapsed codes, tickets, consumed
// token ids and signing keys. Expiry is always checked on read as well, so
// nothing depends on it running.
type HousekeepingService struct {
	Store        store.Store
	Logger       *slog.Logger
	Interval     time.Duration
	OTPRetention time.Duration
	Clock        Clock

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:        store,
		Logger:       logger,
		Interval:     interval,
		OTPRetention: DefaultOTPRetention,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until any in-progress sweep has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep runs every cleanup once. Each step is independent; a failure is
// logged and the rest still run. It returns the number of steps that
// succeeded.
func (s *HousekeepingService) Sweep(ctx context.Context) int {
	now := s.Clock.now()
	retention := orDefault(s.OTPRetention, DefaultOTPRetention)

	steps := []struct {
		name string
		fn   func() (int64, error)
	}{
		{"expire stale otp codes", func() (int64, error) { return s.Store.OTPs().SweepExpired(ctx, now) }},
		{"delete closed otp codes", func() (int64, error) { return s.Store.OTPs().DeleteClosedBefore(ctx, now.Add(-retention)) }},
		{"expire stale tickets", func() (int64, error) { return s.Store.Tickets().SweepExpired(ctx, now) }},
		{"delete consumed token ids", func() (int64, error) { return s.Store.ConsumedTokens().DeleteExpired(ctx, now) }},
		{"delete expired signing keys", func() (int64, error) { return s.Store.SigningKeys().DeleteExpiredSigningKeys(ctx, now) }},
	}

	var ok int
	for _, step := range steps {
		n, err := step.fn()
		if err != nil {
			s.Logger.Error("housekeeping step failed", "step", step.name, "error", err)
			continue
		}
		s.Logger.Debug("housekeeping step done", "step", step.name, "rows", n)
		ok++
	}

	s.Logger.Info("housekeeping cleanup completed", "successful_cleanups", ok)
	return ok
}
