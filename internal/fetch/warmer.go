package fetch

import (
	"context"
	"time"

	"github.com/bassista/paddock/internal/logger"
)

// SlotObtainer is the part of Fetcher the warmer needs.
type SlotObtainer interface {
	Obtain(ctx context.Context, slot Slot) (*Result, error)
}

// StartWarmer obtains every slot once, then again on each tick, so requests usually hit a
// fresh slot. Fresh slots cost no network call. Returns a channel closed after ctx is done.
func StartWarmer(ctx context.Context, o SlotObtainer, slots []Slot, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	log := logger.WithComponent("warmer")
	log.Debugf("starting cache warmer with interval: %v", interval)
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		warm(ctx, o, slots)
		for {
			select {
			case <-ctx.Done():
				log.Info("cache warmer stopped")
				return
			case <-ticker.C:
				log.Trace("cache warmer tick")
				warm(ctx, o, slots)
			}
		}
	}()
	return done
}

func warm(ctx context.Context, o SlotObtainer, slots []Slot) {
	for _, slot := range slots {
		if ctx.Err() != nil {
			return
		}
		res, err := o.Obtain(ctx, slot)
		if err != nil {
			logger.WithComponent("warmer").Warnf("slot %s not warmed: %v", slot.Name, err)
			continue
		}
		logger.WithComponent("warmer").Debugf("slot %s served from %s", slot.Name, res.Source)
	}
}
