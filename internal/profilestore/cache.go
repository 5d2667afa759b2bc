package profilestore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"influencer-matching/internal/common/logger"
	"influencer-matching/internal/common/metrics"
	"influencer-matching/internal/models"
)

// CachedReader is a read-through Redis cache in front of a ProfileReader.
// Only single profiles are cached; candidate pools always go to the store.
// Cache failures are logged and fall back to the backing reader.
type CachedReader struct {
	next   ProfileReader
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedReader(next ProfileReader, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedReader {
	return &CachedReader{
		next:   next,
		redis:  client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "profile-cache"}),
	}
}

func cacheKey(kind models.ProfileKind, id string) string {
	return "profile:" + string(kind) + ":" + id
}

func (c *CachedReader) GetInfluencer(ctx context.Context, id string) (*models.InfluencerProfile, error) {
	key := cacheKey(models.KindInfluencer, id)

	var cached models.InfluencerProfile
	if c.lookup(ctx, models.KindInfluencer, key, &cached) {
		return &cached, nil
	}

	p, err := c.next.GetInfluencer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, p)
	return p, nil
}

func (c *CachedReader) GetBusiness(ctx context.Context, id string) (*models.BusinessProfile, error) {
	key := cacheKey(models.KindBusiness, id)

	var cached models.BusinessProfile
	if c.lookup(ctx, models.KindBusiness, key, &cached) {
		return &cached, nil
	}

	p, err := c.next.GetBusiness(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, p)
	return p, nil
}

// Invalidate drops a cached profile, e.g. after an upsert.
func (c *CachedReader) Invalidate(ctx context.Context, kind models.ProfileKind, id string) error {
	return c.redis.Del(ctx, cacheKey(kind, id)).Err()
}

func (c *CachedReader) lookup(ctx context.Context, kind models.ProfileKind, key string, into interface{}) bool {
	val, err := c.redis.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		metrics.ProfileCacheLookups.WithLabelValues(string(kind), "miss").Inc()
		return false
	case err != nil:
		metrics.ProfileCacheLookups.WithLabelValues(string(kind), "error").Inc()
		c.logger.Warn("profile cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}

	if err := json.Unmarshal([]byte(val), into); err != nil {
		metrics.ProfileCacheLookups.WithLabelValues(string(kind), "error").Inc()
		c.logger.Warn("discarding undecodable cached profile", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	metrics.ProfileCacheLookups.WithLabelValues(string(kind), "hit").Inc()
	return true
}

func (c *CachedReader) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("profile cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
