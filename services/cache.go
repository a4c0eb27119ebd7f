package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"backend_assetflow/database"
)

// CacheService wraps the shared Redis client. Every method tolerates a nil
// client so the application keeps working when Redis is down.
type CacheService struct {
	redis  *redis.Client
	logger *log.Logger
}

// NewCacheService creates a new CacheService.
func NewCacheService(redisClient *redis.Client, logger *log.Logger) *CacheService {
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// Cache TTL levels
const (
	CacheTTLShort  = 5 * time.Minute  // frequently changing data
	CacheTTLMedium = 15 * time.Minute // moderately changing data
	CacheTTLLong   = 1 * time.Hour    // rarely changing data
)

// Get reads a raw value from the cache.
func (cs *CacheService) Get(ctx context.Context, key string) (string, error) {
	if cs.redis == nil {
		return "", fmt.Errorf("redis not connected")
	}

	val, err := cs.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", fmt.Errorf("key not found")
	}
	return val, err
}

// Set stores a raw value in the cache.
func (cs *CacheService) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if cs.redis == nil {
		if cs.logger != nil {
			cs.logger.Printf("Redis not connected, skipping cache write for key: %s", key)
		}
		return nil
	}

	return cs.redis.Set(ctx, key, value, ttl).Err()
}

// Del removes a key from the cache.
func (cs *CacheService) Del(ctx context.Context, key string) error {
	if cs.redis == nil {
		return nil
	}

	return cs.redis.Del(ctx, key).Err()
}

// CacheDashboardStats stores the aggregated dashboard payload.
func (cs *CacheService) CacheDashboardStats(stats interface{}) error {
	if cs.redis == nil {
		return nil
	}
	key := database.GenerateCacheKey("stats", "dashboard")
	return database.CacheSetJSON(key, stats, CacheTTLShort)
}

// GetCachedDashboardStats reads the aggregated dashboard payload.
func (cs *CacheService) GetCachedDashboardStats(dest interface{}) error {
	if cs.redis == nil {
		return fmt.Errorf("redis not connected")
	}
	key := database.GenerateCacheKey("stats", "dashboard")
	return database.CacheGetJSON(key, dest)
}

// InvalidateDashboardStats drops the cached dashboard payload after a write.
func (cs *CacheService) InvalidateDashboardStats() error {
	key := database.GenerateCacheKey("stats", "dashboard")
	return database.CacheDel(key)
}
