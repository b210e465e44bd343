package cache

import (
	"context"
	"fmt"
	"time"

	"freelance-booking/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// DefaultDeliveryTTL bounds how long a webhook delivery holds its claim.
const DefaultDeliveryTTL = 5 * time.Minute

// DeliveryGuard drops duplicate webhook deliveries for a reference while an
// earlier one is still being processed. The database stays the authority on
// idempotency; a nil guard claims everything.
type DeliveryGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeliveryGuard returns nil when no address is configured.
func NewDeliveryGuard(cfg utils.RedisConfig, ttl time.Duration) *DeliveryGuard {
	if cfg.Addr == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultDeliveryTTL
	}

	return &DeliveryGuard{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:    ttl,
	}
}

func (g *DeliveryGuard) Ping(ctx context.Context) error {
	if g == nil {
		return nil
	}
	return g.client.Ping(ctx).Err()
}

// Claim reports whether the caller should process reference.
func (g *DeliveryGuard) Claim(ctx context.Context, reference string) (bool, error) {
	if g == nil {
		return true, nil
	}
	return g.client.SetNX(ctx, deliveryKey(reference), "processing", g.ttl).Result()
}

// Release lets a later delivery retry after a failed attempt.
func (g *DeliveryGuard) Release(ctx context.Context, reference string) error {
	if g == nil {
		return nil
	}
	return g.client.Del(ctx, deliveryKey(reference)).Err()
}

func (g *DeliveryGuard) Close() error {
	if g == nil {
		return nil
	}
	return g.client.Close()
}

func deliveryKey(reference string) string {
	return fmt.Sprintf("lock:paystack:delivery:%s", reference)
}
