package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/airfleet/config"
	"github.com/redis/go-redis/v9"
)

// Entity types the cache keeps a key registry for. Flight queries are
// never cached: five independent filters make the key space too wide
// for full invalidation to pay off.
const (
	EntityAirlines = "airlines"
	EntityCities   = "cities"
)

// RedisCache stores derived read results as JSON with no expiry. Every
// populated key is also recorded in a per-entity registry set, so a
// write to that entity type can drop the complete derived set without
// knowing the parameterizations up front. Registry entries only go away
// on invalidation; the key space is bounded by the filter combinations
// clients actually use.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
	}
}

// Get unmarshals the cached value into dest. The boolean reports
// whether the key was present.
func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value under key forever and records the key in the entity
// type's registry.
func (c *RedisCache) Set(ctx context.Context, entityType, key string, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return err
	}
	return c.client.SAdd(ctx, registryKey(entityType), key).Err()
}

// Invalidate drops a single derived entry.
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// InvalidateAll drops every entry ever recorded against the entity
// type, plus the registry itself.
func (c *RedisCache) InvalidateAll(ctx context.Context, entityType string) error {
	registry := registryKey(entityType)
	keys, err := c.client.SMembers(ctx, registry).Result()
	if err != nil {
		return err
	}
	keys = append(keys, registry)
	return c.client.Del(ctx, keys...).Err()
}

func registryKey(entityType string) string {
	return fmt.Sprintf("cache:registry:%s", entityType)
}

// AllAirlinesKey and AllCitiesKey name the two aggregate lookups the
// services cache.
func AllAirlinesKey() string {
	return "cache:airlines"
}

func AllCitiesKey() string {
	return "cache:cities"
}
