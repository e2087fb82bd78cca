package redis_test

import (
	"testing"
	"time"

	rediscache "tracking/internal/adapters/out/redis"
	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/tenant"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCache(t *testing.T, supportsTags bool) (*rediscache.TenantCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return rediscache.NewTenantCache(client, zap.NewNop(), supportsTags), mr
}

func newTenant(t *testing.T, subdomain, primaryDomain string) *tenant.Tenant {
	t.Helper()
	created, err := tenant.NewTenant(kernel.NewUUID(), "Tenant "+subdomain, subdomain, time.Now().UTC())
	require.NoError(t, err)
	if primaryDomain != "" {
		require.NoError(t, created.SetPrimaryDomain(primaryDomain))
	}
	return created
}

func TestTenantCache_RoundTrip(t *testing.T) {
	cache, _ := newCache(t, false)
	acme := newTenant(t, "acme", "shop.acme.example")

	cache.Set(t.Context(), "tenant:subdomain:acme", acme, time.Minute)

	got, ok := cache.Get(t.Context(), "tenant:subdomain:acme")
	require.True(t, ok)
	assert.True(t, got.ID().IsEqual(acme.ID()))
	assert.Equal(t, "acme", got.Subdomain())
	assert.Equal(t, "shop.acme.example", got.PrimaryDomain())
	assert.True(t, got.IsOperational())
}

func TestTenantCache_MissAndExpiry(t *testing.T) {
	cache, mr := newCache(t, false)
	acme := newTenant(t, "acme", "")

	_, ok := cache.Get(t.Context(), "tenant:subdomain:acme")
	assert.False(t, ok, "cold cache must miss")

	cache.Set(t.Context(), "tenant:subdomain:acme", acme, time.Minute)
	mr.FastForward(2 * time.Minute)

	_, ok = cache.Get(t.Context(), "tenant:subdomain:acme")
	assert.False(t, ok, "expired entry must miss")
}

func TestTenantCache_CorruptEntryReadsAsMiss(t *testing.T) {
	cache, mr := newCache(t, false)
	require.NoError(t, mr.Set("tenant:subdomain:acme", "{not json"))

	_, ok := cache.Get(t.Context(), "tenant:subdomain:acme")
	assert.False(t, ok)
}

func TestTenantCache_InvalidateWithoutTags(t *testing.T) {
	cache, _ := newCache(t, false)
	acme := newTenant(t, "acme", "shop.acme.example")

	keys := []string{
		"tenant:id:" + acme.ID().String(),
		"tenant:subdomain:acme",
		"tenant:domain:shop.acme.example",
	}
	for _, key := range keys {
		cache.Set(t.Context(), key, acme, time.Minute)
	}

	assert.False(t, cache.SupportsTags())
	require.NoError(t, cache.InvalidateTenant(t.Context(), acme))

	for _, key := range keys {
		_, ok := cache.Get(t.Context(), key)
		assert.False(t, ok, "key %s should be gone", key)
	}
}

func TestTenantCache_InvalidateWithTags(t *testing.T) {
	cache, _ := newCache(t, true)
	acme := newTenant(t, "acme", "")
	other := newTenant(t, "globex", "")

	cache.Set(t.Context(), "tenant:subdomain:acme", acme, time.Minute)
	cache.Set(t.Context(), "tenant:id:"+acme.ID().String(), acme, time.Minute)
	cache.Set(t.Context(), "tenant:subdomain:globex", other, time.Minute)

	assert.True(t, cache.SupportsTags())
	require.NoError(t, cache.InvalidateTenant(t.Context(), acme))

	_, ok := cache.Get(t.Context(), "tenant:subdomain:acme")
	assert.False(t, ok)
	_, ok = cache.Get(t.Context(), "tenant:id:"+acme.ID().String())
	assert.False(t, ok)

	_, ok = cache.Get(t.Context(), "tenant:subdomain:globex")
	assert.True(t, ok, "other tenants' entries must survive")
}
