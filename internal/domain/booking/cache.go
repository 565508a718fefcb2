package booking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const availabilityKeyPrefix = "availability:"

// AvailabilityCache is a short-TTL Redis cache of booked-slot sets keyed by
// (court, date). Every booking write invalidates the affected key. A nil
// cache or nil client is a no-op; reads then always hit the database.
type AvailabilityCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewAvailabilityCache creates an availability cache
func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{redis: client, ttl: ttl}
}

func availabilityKey(courtID uuid.UUID, date string) string {
	return availabilityKeyPrefix + courtID.String() + ":" + date
}

// Get returns the cached booked-slot IDs and whether the key was present
func (c *AvailabilityCache) Get(ctx context.Context, courtID uuid.UUID, date string) ([]uuid.UUID, bool) {
	if c == nil || c.redis == nil {
		return nil, false
	}

	data, err := c.redis.Get(ctx, availabilityKey(courtID, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Msg("Availability cache read failed")
		}
		return nil, false
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, false
	}
	return ids, true
}

// Set caches the booked-slot IDs for (court, date)
func (c *AvailabilityCache) Set(ctx context.Context, courtID uuid.UUID, date string, ids []uuid.UUID) {
	if c == nil || c.redis == nil {
		return
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}

	data, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, availabilityKey(courtID, date), data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("Availability cache write failed")
	}
}

// Invalidate drops the cached set for (court, date)
func (c *AvailabilityCache) Invalidate(ctx context.Context, courtID uuid.UUID, date string) {
	if c == nil || c.redis == nil {
		return
	}
	if err := c.redis.Del(ctx, availabilityKey(courtID, date)).Err(); err != nil {
		log.Warn().Err(err).Msg("Availability cache invalidation failed")
	}
}
