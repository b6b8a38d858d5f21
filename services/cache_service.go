package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"knitcraft_server/structs"
	"knitcraft_server/structs/tables"
	"math/rand/v2"
	"net"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	cacheOpTimeout  = 2 * time.Second
	cacheMaxRetries = 3
	scanBatch       = 100
)

var (
	sharedRedis     *redis.Client
	sharedRedisOnce sync.Once
)

// CacheService holds carts, product detail entries, rate-limit counters and
// the token blacklist in Redis.
type CacheService struct {
	logger *gecho.Logger
	cfg    *structs.CacheConfig
	auth   *structs.AuthConfig
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		cfg:    cfg.Cache,
		auth:   cfg.Auth,
		client: redisClient(cfg.Cache),
	}
}

// redisClient builds the process-wide pool on first use.
func redisClient(cfg *structs.CacheConfig) *redis.Client {
	sharedRedisOnce.Do(func() {
		sharedRedis = redis.NewClient(&redis.Options{
			Addr:            cfg.Addr,
			Password:        cfg.Password,
			DB:              cfg.DB,
			PoolSize:        20,
			MinIdleConns:    2,
			PoolTimeout:     4 * time.Second,
			ConnMaxIdleTime: 5 * time.Minute,
			DialTimeout:     5 * time.Second,
			ReadTimeout:     3 * time.Second,
			WriteTimeout:    3 * time.Second,
			// retries are handled by run
			MaxRetries: -1,
		})
	})
	return sharedRedis
}

func (cs *CacheService) Close() error {
	if cs.client == nil {
		return nil
	}
	return cs.client.Close()
}

// run executes op with a per-attempt deadline, retrying transient network
// failures with jittered exponential backoff.
func (cs *CacheService) run(op func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= cacheMaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff(attempt))
		}
		ctx, cancel := context.WithTimeout(context.Background(), cacheOpTimeout)
		err = op(ctx)
		cancel()
		if err == nil || !transient(err) {
			return err
		}
	}
	return fmt.Errorf("redis: giving up after %d attempts: %w", cacheMaxRetries+1, err)
}

// backoff grows 100ms, 200ms, 400ms... capped at 2s, then picks a point in the
// upper half of the step.
func backoff(attempt int) time.Duration {
	step := min(100*time.Millisecond<<(attempt-1), 2*time.Second)
	return step/2 + rand.N(step/2+1)
}

func transient(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// PingContext satisfies Pinger for the cache health route.
func (cs *CacheService) PingContext(ctx context.Context) error {
	return cs.client.Ping(ctx).Err()
}

func (cs *CacheService) GetConnectionStats() map[string]any {
	s := cs.client.PoolStats()
	return map[string]any{
		"hits":        s.Hits,
		"misses":      s.Misses,
		"timeouts":    s.Timeouts,
		"total_conns": s.TotalConns,
		"idle_conns":  s.IdleConns,
		"stale_conns": s.StaleConns,
	}
}

// DeletePattern unlinks every key matching pattern, scanning in batches.
func (cs *CacheService) DeletePattern(pattern string) error {
	return cs.run(func(ctx context.Context) error {
		iter := cs.client.Scan(ctx, 0, pattern, scanBatch).Iterator()
		batch := make([]string, 0, scanBatch)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == scanBatch {
				if err := cs.client.Unlink(ctx, batch...).Err(); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(batch) > 0 {
			return cs.client.Unlink(ctx, batch...).Err()
		}
		return nil
	})
}

// IncrementRateLimit bumps the counter for ip on endpoint. The window starts
// with the first hit.
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, window time.Duration) (int, error) {
	key := "ratelimit:" + ip + ":" + endpoint
	var hits *redis.IntCmd
	err := cs.run(func(ctx context.Context) error {
		_, err := cs.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			hits = p.Incr(ctx, key)
			p.ExpireNX(ctx, key, window)
			return nil
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return int(hits.Val()), nil
}

// Token blacklist

func blacklistKey(jti uuid.UUID) string { return "blacklist:" + jti.String() }

// BlacklistToken revokes jti until exp; already expired tokens are kept for
// one refresh lifetime.
func (cs *CacheService) BlacklistToken(jti uuid.UUID, exp time.Time) error {
	ttl := time.Until(exp)
	if ttl <= 0 {
		ttl = cs.auth.RefreshTokenExpiry
	}
	return cs.run(func(ctx context.Context) error {
		return cs.client.Set(ctx, blacklistKey(jti), 1, ttl).Err()
	})
}

func (cs *CacheService) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	var n int64
	err := cs.run(func(ctx context.Context) (err error) {
		n, err = cs.client.Exists(ctx, blacklistKey(jti)).Result()
		return err
	})
	return n > 0, err
}

// Product detail entries. The id key maps to the slug so writes made by id can
// drop the slug entry.

func productSlugKey(slug string) string { return "product:slug:" + slug }
func productIDKey(id uuid.UUID) string  { return "product:id:" + id.String() }
func cartKey(cartID string) string      { return "cart:" + cartID }

func (cs *CacheService) GetProductBySlug(slug string) (*tables.Product, error) {
	product, err := readJSON[tables.Product](cs, productSlugKey(slug))
	if err != nil {
		cs.logger.Warn("Failed to read cached product", gecho.Field("slug", slug), gecho.Field("error", err))
	}
	return product, err
}

func (cs *CacheService) SetProductBySlug(product *tables.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	ttl := ttlOr(cs.cfg.ProductTTL, 5*time.Minute)
	return cs.run(func(ctx context.Context) error {
		_, err := cs.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, productSlugKey(product.Slug), data, ttl)
			p.Set(ctx, productIDKey(product.ID), product.Slug, ttl)
			return nil
		})
		return err
	})
}

// InvalidateProductCaches drops the detail entry of a product after it or
// one of its variants changed. Without the id index it clears every slug entry.
func (cs *CacheService) InvalidateProductCaches(productID uuid.UUID) error {
	idKey := productIDKey(productID)
	var slug string
	err := cs.run(func(ctx context.Context) (err error) {
		slug, err = cs.client.Get(ctx, idKey).Result()
		if errors.Is(err, redis.Nil) {
			slug, err = "", nil
		}
		return err
	})
	if err != nil {
		cs.logger.Warn("Failed to resolve cached product slug", gecho.Field("product_id", productID), gecho.Field("error", err))
		return cs.DeletePattern("product:slug:*")
	}

	keys := []string{idKey}
	if slug != "" {
		keys = append(keys, productSlugKey(slug))
	}
	return cs.run(func(ctx context.Context) error {
		return cs.client.Del(ctx, keys...).Err()
	})
}

// Carts

func (cs *CacheService) GetCart(cartID string) (*structs.Cart, error) {
	return readJSON[structs.Cart](cs, cartKey(cartID))
}

// SaveCart writes the cart and restarts its TTL.
func (cs *CacheService) SaveCart(cartID string, cart *structs.Cart) error {
	return writeJSON(cs, cartKey(cartID), cart, ttlOr(cs.cfg.CartTTL, 30*24*time.Hour))
}

func (cs *CacheService) DeleteCart(cartID string) error {
	return cs.run(func(ctx context.Context) error {
		return cs.client.Del(ctx, cartKey(cartID)).Err()
	})
}

func ttlOr(ttl, fallback time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return fallback
}

func writeJSON(cs *CacheService, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return cs.run(func(ctx context.Context) error {
		return cs.client.Set(ctx, key, data, ttl).Err()
	})
}

// readJSON returns nil, nil on a miss.
func readJSON[T any](cs *CacheService, key string) (*T, error) {
	var raw []byte
	err := cs.run(func(ctx context.Context) (err error) {
		raw, err = cs.client.Get(ctx, key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(raw, out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}
