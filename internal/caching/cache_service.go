package caching

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"sgspadmin/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix              = "sgsp:"
	dashboardSummaryKey    = keyPrefix + "dashboard:summary"
	dashboardTopProductKey = keyPrefix + "dashboard:top-products"
)

type CacheService interface {
	// Dashboard caching
	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
	SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error
	GetTopProducts(ctx context.Context) ([]models.TopProduct, bool, error)
	SetTopProducts(ctx context.Context, products []models.TopProduct, ttl time.Duration) error
	InvalidateDashboard(ctx context.Context) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, bool, error)
	SetIntMax(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// setIntMaxScript stores ARGV[1] with a PX of ARGV[2] unless the key already
// holds a number at least as large. Returns 1 when it wrote.
var setIntMaxScript = redis.NewScript(`
local cur = redis.call('GET', KEYS[1])
if cur and tonumber(cur) and tonumber(cur) >= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

type redisCacheService struct {
	client *redis.Client
}

// NewRedisCacheService connects to addr. A redis:// or rediss:// scheme is tolerated.
func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	} else {
		log.Printf("Redis connection established (address: %s)", parsedAddr)
	}

	return &redisCacheService{client: client}
}

// NewCacheServiceFromClient wraps an existing client.
func NewCacheServiceFromClient(client *redis.Client) CacheService {
	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	data, err := r.client.Get(ctx, dashboardSummaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var summary models.DashboardSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (r *redisCacheService) SetDashboardSummary(ctx context.Context, summary *models.DashboardSummary, ttl time.Duration) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, dashboardSummaryKey, data, ttl).Err()
}

func (r *redisCacheService) GetTopProducts(ctx context.Context) ([]models.TopProduct, bool, error) {
	data, err := r.client.Get(ctx, dashboardTopProductKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var products []models.TopProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

func (r *redisCacheService) SetTopProducts(ctx context.Context, products []models.TopProduct, ttl time.Duration) error {
	if products == nil {
		products = []models.TopProduct{}
	}
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, dashboardTopProductKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateDashboard(ctx context.Context) error {
	return r.client.Del(ctx, dashboardSummaryKey, dashboardTopProductKey).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, keyPrefix+key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil // cache miss
		}
		return "", false, err
	}
	return val, true, nil
}

// SetIntMax atomically raises the integer at key to value, refreshing its
// TTL, and leaves a larger stored value untouched.
func (r *redisCacheService) SetIntMax(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	ms := ttl.Milliseconds()
	if ms < 1 {
		ms = 1
	}
	written, err := setIntMaxScript.Run(ctx, r.client, []string{keyPrefix + key}, value, ms).Int()
	if err != nil {
		return false, err
	}
	return written == 1, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, keyPrefix+key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
