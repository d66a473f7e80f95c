package queue

import (
	"context"
	"fmt"
	"log"
	"time"
)

const purgeTimeout = 2 * time.Minute

// GarbageCollector periodically purges the dead-letter queue, where
// snooze-wake jobs land after exhausting their retries. Without it the
// DLQ grows unbounded on a broker without TTL policies.
type GarbageCollector struct {
	dlqPurger DLQPurger
	interval  time.Duration
	retention time.Duration
}

// NewGarbageCollector creates a collector that purges messages older than
// retention every interval.
func NewGarbageCollector(purger DLQPurger, interval, retention time.Duration) *GarbageCollector {
	return &GarbageCollector{
		dlqPurger: purger,
		interval:  interval,
		retention: retention,
	}
}

// Start runs the purge loop until ctx is cancelled. Purge failures are
// logged and the loop keeps running.
func (gc *GarbageCollector) Start(ctx context.Context) error {
	ticker := time.NewTicker(gc.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := gc.collect(ctx); err != nil {
				log.Printf("DLQ purge failed: %v", err)
			}
		}
	}
}

func (gc *GarbageCollector) collect(ctx context.Context) error {
	if gc.dlqPurger == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()
	purged, err := gc.dlqPurger.PurgeOlderThan(ctx, gc.retention)
	if err != nil {
		return fmt.Errorf("purge dead letters: %w", err)
	}
	if purged > 0 {
		log.Printf("Purged %d dead-lettered job(s) older than %v", purged, gc.retention)
	}
	return nil
}
