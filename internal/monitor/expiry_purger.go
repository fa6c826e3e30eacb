package monitor

import (
	"context"
	"log"
	"time"

	"github.com/axellelanca/dynamiclinks/internal/repository"
)

// ExpiryPurger periodically deletes links whose expiry passed more than grace ago.
// Resolution never depends on it: the resolver checks expiry on every request.
type ExpiryPurger struct {
	linkRepo repository.LinkRepository // Store to purge
	interval time.Duration             // How often to purge
	grace    time.Duration             // How long expired links stay visible as expired
	now      func() time.Time
}

// DefaultPurgeInterval replaces a non-positive purge interval.
const DefaultPurgeInterval = time.Minute

// NewExpiryPurger creates and returns a new instance of ExpiryPurger.
func NewExpiryPurger(linkRepo repository.LinkRepository, interval, grace time.Duration) *ExpiryPurger {
	if interval <= 0 {
		interval = DefaultPurgeInterval
	}
	return &ExpiryPurger{
		linkRepo: linkRepo,
		interval: interval,
		grace:    grace,
		now:      time.Now,
	}
}

// Start runs the purge loop until ctx is cancelled.
func (p *ExpiryPurger) Start(ctx context.Context) {
	log.Printf("[PURGE] Starting expiry purger with interval of %v...", p.interval)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Purge once on startup before waiting for the first tick
	p.purgeOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("[PURGE] Expiry purger stopped.")
			return
		case <-ticker.C:
			p.purgeOnce(ctx)
		}
	}
}

// purgeOnce deletes every link expired before now - grace and returns the count.
func (p *ExpiryPurger) purgeOnce(ctx context.Context) int64 {
	cutoff := p.now().Add(-p.grace)
	deleted, err := p.linkRepo.DeleteExpired(ctx, cutoff)
	if err != nil {
		log.Printf("[PURGE] ERROR deleting expired links: %v", err)
		return 0
	}
	if deleted > 0 {
		log.Printf("[PURGE] Deleted %d expired link(s).", deleted)
	}
	return deleted
}
