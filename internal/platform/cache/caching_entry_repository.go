// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"declutter_backend/internal/feature/entries/domain/entity"
	"declutter_backend/internal/feature/entries/usecase"
)

// CachingEntryRepository decorates an EntryRepository with Redis caching of
// the per-user tag list. Everything else passes through to the inner repository.
type CachingEntryRepository struct {
	inner     usecase.EntryRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EntryRepository = (*CachingEntryRepository)(nil)

// NewCachingEntryRepository decorates an EntryRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "entries".
// A nil rdb disables caching.
func NewCachingEntryRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EntryRepository, namespace string) *CachingEntryRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "entries"
	}
	return &CachingEntryRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingEntryRepository) ListByOwner(ctx context.Context, userID string) ([]entity.Entry, error) {
	return c.inner.ListByOwner(ctx, userID)
}

func (c *CachingEntryRepository) FindByOwner(ctx context.Context, id uint, userID string) (*entity.Entry, error) {
	return c.inner.FindByOwner(ctx, id, userID)
}

func (c *CachingEntryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return c.inner.Exists(ctx, id)
}

// Create stores the entry and drops the author's cached tag list.
func (c *CachingEntryRepository) Create(ctx context.Context, e *entity.Entry) error {
	if err := c.inner.Create(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.AuthorID)
	return nil
}

// Update stores the change and drops the author's cached tag list.
func (c *CachingEntryRepository) Update(ctx context.Context, e *entity.Entry) error {
	if err := c.inner.Update(ctx, e); err != nil {
		return err
	}
	c.invalidate(ctx, e.AuthorID)
	return nil
}

// Delete removes the entry and drops the owner's cached tag list.
func (c *CachingEntryRepository) Delete(ctx context.Context, id uint, userID string) error {
	if err := c.inner.Delete(ctx, id, userID); err != nil {
		return err
	}
	c.invalidate(ctx, userID)
	return nil
}

// TagsUsedBy checks the cache first then falls back to the inner repository.
func (c *CachingEntryRepository) TagsUsedBy(ctx context.Context, userID string) ([]entity.Tag, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.TagsUsedBy(ctx, userID)
	}

	key := c.cacheKey(userID)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Tag
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database
	out, err := c.inner.TagsUsedBy(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// invalidate is best effort. A stale entry expires after ttl at the latest.
func (c *CachingEntryRepository) invalidate(ctx context.Context, userID string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.cacheKey(userID)).Err()
}

// cacheKey generates the cache key for a user's tag list.
func (c *CachingEntryRepository) cacheKey(userID string) string {
	return fmt.Sprintf("%s:tags-used-by:%s", c.namespace, safe(userID))
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
