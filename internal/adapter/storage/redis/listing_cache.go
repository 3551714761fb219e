package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"asset-marketplace/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// ListingCache implements ports.ListingCache using Redis. Values are
// JSON-encoded listings keyed by "listing:<nft>:<token_id>".
type ListingCache struct {
	client *goredis.Client
	prefix string
}

// NewListingCache creates a new Redis-backed listing cache.
func NewListingCache(client *goredis.Client) *ListingCache {
	return &ListingCache{
		client: client,
		prefix: "listing:",
	}
}

func (c *ListingCache) key(nftAddress string, tokenID uint64) string {
	return c.prefix + domain.ListingKey(nftAddress, tokenID)
}

// Get retrieves a cached listing. Returns nil, nil on a miss.
func (c *ListingCache) Get(ctx context.Context, nftAddress string, tokenID uint64) (*domain.Listing, error) {
	val, err := c.client.Get(ctx, c.key(nftAddress, tokenID)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis listing get: %w", err)
	}

	var listing domain.Listing
	if err := json.Unmarshal(val, &listing); err != nil {
		return nil, fmt.Errorf("decode cached listing: %w", err)
	}
	return &listing, nil
}

// Set stores a listing with TTL.
func (c *ListingCache) Set(ctx context.Context, listing *domain.Listing, ttl time.Duration) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return fmt.Errorf("encode listing: %w", err)
	}
	if err := c.client.Set(ctx, c.key(listing.NFTAddress, listing.TokenID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis listing set: %w", err)
	}
	return nil
}

// Invalidate removes a cached listing after a mutation of its key.
func (c *ListingCache) Invalidate(ctx context.Context, nftAddress string, tokenID uint64) error {
	if err := c.client.Del(ctx, c.key(nftAddress, tokenID)).Err(); err != nil {
		return fmt.Errorf("redis listing del: %w", err)
	}
	return nil
}
