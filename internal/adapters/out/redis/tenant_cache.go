// Package redis provides the Redis-backed tenant resolution cache.
// Cache entries are JSON snapshots of the tenant aggregate keyed by the
// resolution field that produced them ("tenant:subdomain:acme").
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// tenantEntry is the JSON shape of one cached tenant.
type tenantEntry struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Subdomain     string     `json:"subdomain"`
	PrimaryDomain string     `json:"primary_domain,omitempty"`
	Active        bool       `json:"active"`
	SuspendedAt   *time.Time `json:"suspended_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// TenantCache implements the tenant resolution cache on Redis.
//
// Tag support is decided once at construction, never per call: when enabled,
// every Set also records the key in a per-tenant set so InvalidateTenant can
// drop all of a tenant's entries regardless of which field keyed them. Without
// tags, invalidation falls back to deleting the keys derivable from the
// aggregate itself.
//
// Cache failures are soft: a Redis error on Get reads as a miss, a Redis
// error on Set is logged and dropped. Resolution correctness never depends on
// the cache.
type TenantCache struct {
	client       *redis.Client
	logger       *zap.Logger
	supportsTags bool
}

// NewTenantCache creates a Redis-backed tenant cache.
func NewTenantCache(client *redis.Client, logger *zap.Logger, supportsTags bool) *TenantCache {
	return &TenantCache{
		client:       client,
		logger:       logger,
		supportsTags: supportsTags,
	}
}

// Get retrieves a cached tenant by its resolution key.
func (c *TenantCache) Get(ctx context.Context, key string) (*tenant.Tenant, bool) {
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("tenant cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var entry tenantEntry
	if err := json.Unmarshal(payload, &entry); err != nil {
		c.logger.Warn("tenant cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	t, err := entry.toDomain()
	if err != nil {
		c.logger.Warn("tenant cache entry invalid", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	return t, true
}

// Set stores a tenant under the given resolution key for ttl.
func (c *TenantCache) Set(ctx context.Context, key string, t *tenant.Tenant, ttl time.Duration) {
	payload, err := json.Marshal(fromDomain(t))
	if err != nil {
		c.logger.Warn("tenant cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		c.logger.Warn("tenant cache write failed", zap.String("key", key), zap.Error(err))
		return
	}

	if c.supportsTags {
		tagKey := tenantTagKey(t.ID())
		pipe := c.client.Pipeline()
		pipe.SAdd(ctx, tagKey, key)
		pipe.Expire(ctx, tagKey, ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			c.logger.Warn("tenant cache tag write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// SupportsTags reports whether tag-based invalidation is available.
func (c *TenantCache) SupportsTags() bool {
	return c.supportsTags
}

// InvalidateTenant drops every cache entry belonging to the tenant.
func (c *TenantCache) InvalidateTenant(ctx context.Context, t *tenant.Tenant) error {
	if c.supportsTags {
		tagKey := tenantTagKey(t.ID())
		keys, err := c.client.SMembers(ctx, tagKey).Result()
		if err != nil {
			return err
		}
		keys = append(keys, tagKey)
		return c.client.Del(ctx, keys...).Err()
	}

	keys := []string{
		fmt.Sprintf("tenant:id:%s", t.ID().String()),
		fmt.Sprintf("tenant:subdomain:%s", t.Subdomain()),
	}
	if d := t.PrimaryDomain(); d != "" {
		keys = append(keys, fmt.Sprintf("tenant:domain:%s", d))
	}
	return c.client.Del(ctx, keys...).Err()
}

func tenantTagKey(id kernel.UUID) string {
	return "tenant:tags:" + id.String()
}

func fromDomain(t *tenant.Tenant) tenantEntry {
	return tenantEntry{
		ID:            t.ID().String(),
		Name:          t.Name(),
		Subdomain:     t.Subdomain(),
		PrimaryDomain: t.PrimaryDomain(),
		Active:        t.Active(),
		SuspendedAt:   t.SuspendedAt(),
		CreatedAt:     t.CreatedAt(),
	}
}

func (e tenantEntry) toDomain() (*tenant.Tenant, error) {
	id, err := kernel.UUIDFromString(e.ID)
	if err != nil {
		return nil, err
	}

	return tenant.RestoreTenant(
		id,
		e.Name,
		e.Subdomain,
		e.PrimaryDomain,
		e.Active,
		e.SuspendedAt,
		e.CreatedAt,
	)
}
