package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SscSPs/document_distribution_app/internal/core/domain"
	portssvc "github.com/SscSPs/document_distribution_app/internal/core/ports/services"
	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "dds:location"

// LocationCache keeps derived current locations in redis for ttl.
type LocationCache struct {
	client *goredis.Client
	ttl    time.Duration
}

var _ portssvc.LocationCache = (*LocationCache)(nil)

// NewLocationCache wraps an existing client.
func NewLocationCache(client *goredis.Client, ttl time.Duration) *LocationCache {
	return &LocationCache{client: client, ttl: ttl}
}

func locationKey(ref domain.DocumentRef) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, ref.Kind, ref.ID)
}

func (c *LocationCache) GetLocation(ctx context.Context, ref domain.DocumentRef) (*domain.CurrentLocation, error) {
	data, err := c.client.Get(ctx, locationKey(ref)).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var loc domain.CurrentLocation
	if err := json.Unmarshal(data, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (c *LocationCache) SetLocation(ctx context.Context, loc domain.CurrentLocation) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, locationKey(loc.DocumentRef), data, c.ttl).Err()
}

func (c *LocationCache) InvalidateLocations(ctx context.Context, refs ...domain.DocumentRef) error {
	if len(refs) == 0 {
		return nil
	}
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = locationKey(ref)
	}
	return c.client.Del(ctx, keys...).Err()
}
