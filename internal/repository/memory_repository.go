package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	customerrors "github.com/axellelanca/dynamiclinks/internal/errors"
	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/patrickmn/go-cache"
)

// MinExpiredRetention is the shortest time an expired item stays in the
// memory store, so lookups report it as expired before it disappears.
const MinExpiredRetention = time.Minute

// MemoryLinkRepository keeps links in a go-cache instance. Items carrying an
// expiry are evicted by the cache janitor once retention has passed after
// their ExpiresAt.
type MemoryLinkRepository struct {
	mu        sync.Mutex
	cache     *cache.Cache
	retention time.Duration
}

// NewMemoryLinkRepository creates an in-memory Link Store whose janitor runs
// every cleanupInterval. Expired items are kept for the longest of grace,
// cleanupInterval and MinExpiredRetention, which matches the sqlite store
// answering 410 until the next purge.
func NewMemoryLinkRepository(grace, cleanupInterval time.Duration) *MemoryLinkRepository {
	return &MemoryLinkRepository{
		cache:     cache.New(cache.NoExpiration, cleanupInterval),
		retention: max(grace, cleanupInterval, MinExpiredRetention),
	}
}

func (r *MemoryLinkRepository) ttl(link *models.Link) time.Duration {
	if link.ExpiresAt == nil {
		return cache.NoExpiration
	}
	d := time.Until(link.ExpiresAt.Add(r.retention))
	if d <= 0 {
		// go-cache treats negative durations as "never expires"
		d = time.Nanosecond
	}
	return d
}

// CreateLink stores a copy of link. It fails with ErrDuplicateToken when a
// live item already uses the token.
func (r *MemoryLinkRepository) CreateLink(ctx context.Context, link *models.Link) error {
	if link.TargetURL == "" {
		return customerrors.NewValidationError("dynamicLinkInfo.link", "is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	if err := r.cache.Add(link.Token, *link, r.ttl(link)); err != nil {
		return fmt.Errorf("token %q: %w", link.Token, customerrors.ErrDuplicateToken)
	}
	return nil
}

// GetLinkByToken returns a copy of the stored link.
func (r *MemoryLinkRepository) GetLinkByToken(ctx context.Context, token string) (*models.Link, error) {
	v, found := r.cache.Get(token)
	if !found {
		return nil, customerrors.ErrLinkNotFound
	}
	link := v.(models.Link)
	return &link, nil
}

// IncrementClickCount adds one click while holding the repository lock so
// concurrent increments are never lost.
func (r *MemoryLinkRepository) IncrementClickCount(ctx context.Context, token string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, expiration, found := r.cache.GetWithExpiration(token)
	if !found {
		return customerrors.ErrLinkNotFound
	}
	link := v.(models.Link)
	if link.IsExpired(now) {
		return customerrors.ErrLinkExpired
	}
	link.ClickCount++

	ttl := cache.NoExpiration
	if !expiration.IsZero() {
		ttl = time.Until(expiration)
		if ttl <= 0 {
			return customerrors.ErrLinkNotFound
		}
	}
	r.cache.Set(token, link, ttl)
	return nil
}

// DeleteExpired evicts links whose ExpiresAt is at or before cutoff.
func (r *MemoryLinkRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for token, item := range r.cache.Items() {
		link := item.Object.(models.Link)
		if link.ExpiresAt != nil && !link.ExpiresAt.After(cutoff) {
			r.cache.Delete(token)
			deleted++
		}
	}
	return deleted, nil
}
