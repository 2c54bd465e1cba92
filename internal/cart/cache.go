package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// ViewCache stores aggregated views keyed by user id. Every Delete bumps a
// per-user generation; Set only stores a view computed under the current
// generation.
type ViewCache interface {
	Get(ctx context.Context, userID int64) (View, error)
	Generation(ctx context.Context, userID int64) (int64, error)
	Set(ctx context.Context, userID int64, gen int64, v View) error
	Delete(ctx context.Context, userID int64) error
}

// setIfGeneration writes KEYS[2] only while KEYS[1] still holds ARGV[1].
var setIfGeneration = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

type RedisViewCache struct {
	client  redis.UniversalClient
	baseTTL time.Duration
}

var _ ViewCache = (*RedisViewCache)(nil)

// NewRedisViewCache stores entries for baseTTL plus a jitter below five
// minutes so entries written together do not expire together.
func NewRedisViewCache(client redis.UniversalClient, baseTTL time.Duration) *RedisViewCache {
	if baseTTL <= 0 {
		baseTTL = 15 * time.Minute
	}
	return &RedisViewCache{client: client, baseTTL: baseTTL}
}

func (r *RedisViewCache) Get(ctx context.Context, userID int64) (View, error) {
	data, err := r.client.Get(ctx, viewKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return View{}, ErrCacheMiss
	}
	if err != nil {
		return View{}, fmt.Errorf("redis get: %w", err)
	}

	var v View
	if err := json.Unmarshal(data, &v); err != nil {
		return View{}, fmt.Errorf("unmarshal cart view: %w", err)
	}
	return v, nil
}

// Generation is 0 until the first Delete.
func (r *RedisViewCache) Generation(ctx context.Context, userID int64) (int64, error) {
	gen, err := r.client.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// Set silently skips views computed under an older generation.
func (r *RedisViewCache) Set(ctx context.Context, userID int64, gen int64, v View) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cart view: %w", err)
	}

	ttl := r.baseTTL + rand.N(5*time.Minute)
	keys := []string{genKey(userID), viewKey(userID)}
	if err := setIfGeneration.Run(ctx, r.client, keys, gen, data, ttl.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisViewCache) Delete(ctx context.Context, userID int64) error {
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, genKey(userID))
	pipe.Del(ctx, viewKey(userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}

func viewKey(userID int64) string {
	return fmt.Sprintf("cart:view:%d", userID)
}

func genKey(userID int64) string {
	return fmt.Sprintf("cart:view:%d:gen", userID)
}
