package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"maideasy/models"

	"github.com/go-redis/redis/v8"
)

// ListingCache holds service listings per category.
type ListingCache interface {
	GetServices(ctx context.Context, category models.ServiceCategory) ([]models.Service, bool)
	SetServices(ctx context.Context, category models.ServiceCategory, services []models.Service) error
	Invalidate(ctx context.Context) error
}

type RedisListingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisListingCache(client *redis.Client, ttl time.Duration) *RedisListingCache {
	return &RedisListingCache{client: client, ttl: ttl}
}

const listingKeyPrefix = "catalog:services:"

func listingKey(category models.ServiceCategory) string {
	if category == "" {
		return listingKeyPrefix + "all"
	}
	return fmt.Sprintf("%s%s", listingKeyPrefix, category)
}

// GetServices reports a miss for absent or unreadable entries.
func (c *RedisListingCache) GetServices(ctx context.Context, category models.ServiceCategory) ([]models.Service, bool) {
	val, err := c.client.Get(ctx, listingKey(category)).Bytes()
	if err != nil {
		return nil, false
	}
	var services []models.Service
	if err := json.Unmarshal(val, &services); err != nil {
		return nil, false
	}
	return services, true
}

func (c *RedisListingCache) SetServices(ctx context.Context, category models.ServiceCategory, services []models.Service) error {
	data, err := json.Marshal(services)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKey(category), data, c.ttl).Err()
}

// Invalidate drops every cached listing.
func (c *RedisListingCache) Invalidate(ctx context.Context) error {
	keys := []string{listingKey("")}
	for _, category := range models.ServiceCategories() {
		keys = append(keys, listingKey(category))
	}
	return c.client.Del(ctx, keys...).Err()
}
