// Package cache holds Redis-backed read-side caches. The database stays the
// source of truth; caches only absorb read traffic and are invalidated on
// every entitlement mutation.
package cache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"readora/internal/shared/logger"
)

// CachedEntitlement is the read-side snapshot of a user's subscription used
// by the paywall status endpoint. Never consulted on the consumption path:
// decrements always go to the database.
type CachedEntitlement struct {
	PlanTier          string
	SessionsRemaining int
	TotalSessions     int
	Status            string
	ResetDate         time.Time
	// NotFound is the null marker: the user was confirmed to have no
	// subscription row, cached briefly to stop repeated DB lookups.
	NotFound bool
}

// EntitlementCache caches subscription snapshots keyed by user ID.
type EntitlementCache interface {
	Get(ctx context.Context, userID string) (*CachedEntitlement, error)
	Set(ctx context.Context, userID string, entitlement *CachedEntitlement) error
	Invalidate(ctx context.Context, userID string) error
	// SetNullMarker caches a short-lived not-found marker (anti-penetration).
	SetNullMarker(ctx context.Context, userID string) error
}

const (
	entitlementKeyPrefix = "entitlement:"
	baseEntitlementTTL   = 5 * time.Minute
	entitlementTTLJitter = 2 * time.Minute // TTL range: 5-7 min (anti-stampede)
	nullMarkerTTL        = 1 * time.Minute // Short TTL for not-found markers

	fieldPlanTier   = "plan_tier"
	fieldRemaining  = "sessions_remaining"
	fieldTotal      = "total_sessions"
	fieldStatus     = "status"
	fieldResetDate  = "reset_date"
	fieldNullMarker = "_null"
)

// RedisEntitlementCache implements EntitlementCache using a Redis hash per user.
type RedisEntitlementCache struct {
	client *redis.Client
	logger logger.Interface
}

func NewRedisEntitlementCache(client *redis.Client, logger logger.Interface) *RedisEntitlementCache {
	return &RedisEntitlementCache{
		client: client,
		logger: logger,
	}
}

func (c *RedisEntitlementCache) key(userID string) string {
	return entitlementKeyPrefix + userID
}

func (c *RedisEntitlementCache) Get(ctx context.Context, userID string) (*CachedEntitlement, error) {
	result, err := c.client.HGetAll(ctx, c.key(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entitlement from cache: %w", err)
	}

	if len(result) == 0 {
		return nil, nil // Cache miss
	}

	if result[fieldNullMarker] == "1" {
		return &CachedEntitlement{NotFound: true}, nil
	}

	entitlement := &CachedEntitlement{
		PlanTier: result[fieldPlanTier],
		Status:   result[fieldStatus],
	}
	entitlement.SessionsRemaining, _ = strconv.Atoi(result[fieldRemaining])
	entitlement.TotalSessions, _ = strconv.Atoi(result[fieldTotal])
	if resetStr, ok := result[fieldResetDate]; ok {
		resetUnix, _ := strconv.ParseInt(resetStr, 10, 64)
		entitlement.ResetDate = time.Unix(resetUnix, 0).UTC()
	}

	return entitlement, nil
}

func (c *RedisEntitlementCache) Set(ctx context.Context, userID string, entitlement *CachedEntitlement) error {
	key := c.key(userID)

	fields := map[string]interface{}{
		fieldPlanTier:  entitlement.PlanTier,
		fieldRemaining: entitlement.SessionsRemaining,
		fieldTotal:     entitlement.TotalSessions,
		fieldStatus:    entitlement.Status,
		fieldResetDate: entitlement.ResetDate.Unix(),
	}

	pipe := c.client.Pipeline()
	pipe.Del(ctx, key) // clear a possible stale null marker
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, entitlementTTLWithJitter())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set entitlement in cache: %w", err)
	}

	c.logger.Debugw("entitlement cached",
		"user_id", userID,
		"plan_tier", entitlement.PlanTier,
		"sessions_remaining", entitlement.SessionsRemaining,
	)

	return nil
}

func (c *RedisEntitlementCache) Invalidate(ctx context.Context, userID string) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate entitlement cache: %w", err)
	}

	c.logger.Debugw("entitlement cache invalidated", "user_id", userID)
	return nil
}

func (c *RedisEntitlementCache) SetNullMarker(ctx context.Context, userID string) error {
	key := c.key(userID)

	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, fieldNullMarker, "1")
	pipe.Expire(ctx, key, nullMarkerTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to set null marker in cache: %w", err)
	}

	return nil
}

// entitlementTTLWithJitter returns a randomized TTL to prevent cache stampede.
func entitlementTTLWithJitter() time.Duration {
	jitter := time.Duration(rand.Int64N(int64(entitlementTTLJitter)))
	return baseEntitlementTTL + jitter
}
