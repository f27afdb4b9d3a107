package services

import (
	"context"
	"time"

	applog "samtech/internal/log"
)

// CartSweeper deletes expired carts on a fixed interval. main owns its
// lifetime: Run returns when ctx is cancelled.
type CartSweeper struct {
	Carts    CartStore
	Interval time.Duration
	Now      func() time.Time
}

func NewCartSweeper(carts CartStore, interval time.Duration) *CartSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &CartSweeper{Carts: carts, Interval: interval}
}

// SweepOnce deletes every cart whose expiry is strictly before now.
func (s *CartSweeper) SweepOnce(ctx context.Context) (int64, error) {
	return s.Carts.DeleteExpired(ctx, clock(s.Now))
}

// Run sweeps immediately and then on every tick. Failures are logged and the
// next tick retries.
func (s *CartSweeper) Run(ctx context.Context) {
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		n, err := s.SweepOnce(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			applog.Error(nil, "cart.sweep.fail", err, nil)
		case n > 0:
			applog.Info(nil, "cart.sweep", map[string]any{"deleted": n})
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
